package lazyslice

import (
	"errors"
	"fmt"

	"github.com/lunfardo314/sestring/varint"
)

// Array is a serialized append-only array of byte slices.
// Serialized form is a varint number of elements followed by every element prefixed with its varint length.
// Parsing and serialization happen only when needed
type Array struct {
	bytes          []byte
	parsed         [][]byte
	maxNumElements int
}

const MaxArrayLen = 0xFFFF

var ErrNotAllConsumed = errors.New("serialization error: not all bytes were consumed")

func ArrayFromBytes(data []byte, maxNumElements ...int) *Array {
	mx := MaxArrayLen
	if len(maxNumElements) > 0 {
		mx = maxNumElements[0]
	}
	return &Array{
		bytes:          data,
		maxNumElements: mx,
	}
}

// ParseArray is ArrayFromBytes with validation
func ParseArray(data []byte, maxNumElements ...int) (*Array, error) {
	ret := ArrayFromBytes(data, maxNumElements...)
	var err error
	if ret.parsed, err = parseArray(data, ret.maxNumElements); err != nil {
		return nil, err
	}
	return ret, nil
}

func EmptyArray(maxNumElements ...int) *Array {
	return ArrayFromBytes(varint.Encode(0), maxNumElements...)
}

func (a *Array) Push(data []byte) int {
	a.ensureParsed()
	if len(a.parsed) >= a.maxNumElements {
		panic("Array.Push: too many elements")
	}
	a.parsed = append(a.parsed, data)
	a.bytes = nil
	return len(a.parsed) - 1
}

func (a *Array) ensureParsed() {
	if a.parsed != nil {
		return
	}
	var err error
	a.parsed, err = parseArray(a.bytes, a.maxNumElements)
	if err != nil {
		panic(err)
	}
}

func (a *Array) ensureBytes() {
	if a.bytes != nil || a.parsed == nil {
		return
	}
	a.bytes = encodeArray(a.parsed)
}

// At returns element or nil if idx is out of range
func (a *Array) At(idx int) []byte {
	a.ensureParsed()
	if idx < 0 || idx >= len(a.parsed) {
		return nil
	}
	return a.parsed[idx]
}

func (a *Array) NumElements() int {
	a.ensureParsed()
	return len(a.parsed)
}

func (a *Array) Bytes() []byte {
	a.ensureBytes()
	return a.bytes
}

func (a *Array) String() string {
	return fmt.Sprintf("%v", a.parsedOrNil())
}

func (a *Array) parsedOrNil() [][]byte {
	if a.parsed == nil && a.bytes != nil {
		p, err := parseArray(a.bytes, a.maxNumElements)
		if err != nil {
			return nil
		}
		return p
	}
	return a.parsed
}

func encodeArray(data [][]byte) []byte {
	ret := varint.Append(nil, uint32(len(data)))
	for _, d := range data {
		ret = varint.Append(ret, uint32(len(d)))
		ret = append(ret, d...)
	}
	return ret
}

// parseArray splits data into slices, reusing the same underlying array
func parseArray(data []byte, maxNumElements int) ([][]byte, error) {
	n, data, err := varint.Read(data)
	if err != nil {
		return nil, fmt.Errorf("parseArray: number of elements: %w", err)
	}
	if int(n) > maxNumElements {
		return nil, fmt.Errorf("parseArray: number of elements in the prefix %d is larger than maxNumElements %d ",
			n, maxNumElements)
	}
	ret := make([][]byte, n)
	var sz uint32
	for i := range ret {
		if sz, data, err = varint.Read(data); err != nil {
			return nil, fmt.Errorf("parseArray: length of element %d: %w", i, err)
		}
		if uint32(len(data)) < sz {
			return nil, fmt.Errorf("parseArray: element %d: %w", i, varint.ErrUnexpectedEndOfStream)
		}
		ret[i] = data[:sz:sz]
		data = data[sz:]
	}
	if len(data) != 0 {
		return nil, ErrNotAllConsumed
	}
	return ret, nil
}
