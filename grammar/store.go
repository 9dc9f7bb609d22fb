package grammar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/lazyslice"
	"github.com/lunfardo314/unitrie/common"
)

// KVStore is what Store needs from the key/value storage
type KVStore interface {
	common.KVReader
	common.BatchedUpdatable
	common.Traversable
}

// Store keeps sheet rows by language, sheet name and row id. Each row is a lazyslice.Array of cells,
// every cell is an encoded string
type Store struct {
	mutex *sync.RWMutex
	kv    KVStore
}

var (
	ErrRowNotFound  = errors.New("row not found")
	ErrWrongSheetID = errors.New("wrong sheet name")
)

// MaxColumns limits number of cells in a row
const MaxColumns = 256

func NewStore(kv KVStore) *Store {
	return &Store{
		mutex: &sync.RWMutex{},
		kv:    kv,
	}
}

// NewInMemory mostly for testing
func NewInMemory() *Store {
	return NewStore(common.NewInMemoryKVStore())
}

// sheetPrefix is language byte, sheet name and 0 byte. Row key is the prefix followed by big-endian row id
func sheetPrefix(lang sestring.Language, sheet string) []byte {
	ret := make([]byte, 0, len(sheet)+6)
	ret = append(ret, byte(lang))
	ret = append(ret, sheet...)
	return append(ret, 0)
}

func rowKey(lang sestring.Language, sheet string, rowID uint32) []byte {
	return binary.BigEndian.AppendUint32(sheetPrefix(lang, sheet), rowID)
}

func checkSheetName(sheet string) error {
	if len(sheet) == 0 {
		return fmt.Errorf("%w: empty", ErrWrongSheetID)
	}
	for i := 0; i < len(sheet); i++ {
		if sheet[i] == 0 {
			return fmt.Errorf("%w: '%s' contains 0 byte", ErrWrongSheetID, sheet)
		}
	}
	return nil
}

// Row is a set of cells to be written
type Row struct {
	Language sestring.Language
	Sheet    string
	ID       uint32
	Cells    [][]byte
}

// PutRows writes rows in one batch
func (s *Store) PutRows(rows ...Row) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	w := s.kv.BatchedWriter()
	for _, r := range rows {
		if err := checkSheetName(r.Sheet); err != nil {
			return err
		}
		if len(r.Cells) > MaxColumns {
			return fmt.Errorf("row %s/%s/%d: too many cells %d", r.Language, r.Sheet, r.ID, len(r.Cells))
		}
		arr := lazyslice.EmptyArray(MaxColumns)
		for _, c := range r.Cells {
			if _, err := sestring.FromBytes(c); err != nil {
				return fmt.Errorf("row %s/%s/%d: %w", r.Language, r.Sheet, r.ID, err)
			}
			arr.Push(c)
		}
		w.Set(rowKey(r.Language, r.Sheet, r.ID), arr.Bytes())
	}
	return w.Commit()
}

func (s *Store) PutRow(lang sestring.Language, sheet string, rowID uint32, cells ...[]byte) error {
	return s.PutRows(Row{Language: lang, Sheet: sheet, ID: rowID, Cells: cells})
}

// PutTextRow stores plain text cells
func (s *Store) PutTextRow(lang sestring.Language, sheet string, rowID uint32, cells ...string) error {
	bin := make([][]byte, len(cells))
	for i, c := range cells {
		bin[i] = []byte(c)
	}
	return s.PutRow(lang, sheet, rowID, bin...)
}

func (s *Store) Row(lang sestring.Language, sheet string, rowID uint32) (*lazyslice.Array, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	bin := s.kv.Get(rowKey(lang, sheet, rowID))
	if len(bin) == 0 {
		return nil, false
	}
	ret, err := lazyslice.ParseArray(bin, MaxColumns)
	if err != nil {
		return nil, false
	}
	return ret, true
}

func (s *Store) mustRow(lang sestring.Language, sheet string, rowID uint32) (*lazyslice.Array, error) {
	ret, ok := s.Row(lang, sheet, rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s/%d", ErrRowNotFound, lang, sheet, rowID)
	}
	return ret, nil
}

// RowIDs returns ids of all rows of the sheet in ascending order
func (s *Store) RowIDs(lang sestring.Language, sheet string) []uint32 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	prefix := sheetPrefix(lang, sheet)
	ret := make([]uint32, 0)
	s.kv.Iterator(prefix).IterateKeys(func(k []byte) bool {
		if len(k) == len(prefix)+4 {
			ret = append(ret, binary.BigEndian.Uint32(k[len(prefix):]))
		}
		return true
	})
	slices.Sort(ret)
	return ret
}

func (s *Store) NumRows() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ret := 0
	s.kv.Iterator(nil).IterateKeys(func(_ []byte) bool {
		ret++
		return true
	})
	return ret
}

// SheetColumn returns the decoded cell. Missing column is an empty string
func (s *Store) SheetColumn(lang sestring.Language, sheet string, rowID, column uint32) (*sestring.SeString, error) {
	row, err := s.mustRow(lang, sheet, rowID)
	if err != nil {
		return nil, err
	}
	return sestring.FromBytes(row.At(int(column)))
}
