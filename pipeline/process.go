package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/unitrie/common"
	"golang.org/x/sync/errgroup"
)

var errNoContext = errors.New("no resolve context")

const (
	stageDecoder  = "decoder"
	stageResolver = "resolver"
)

// Result is the outcome of processing one encoded string
type Result struct {
	Seq      uint64
	Input    []byte
	Decoded  *sestring.SeString
	Resolved *sestring.SeString
	// Hash is blake2b-256 of the re-encoded decoded string
	Hash [32]byte
	// RoundTrip is true if the decoded string re-encodes to exactly the input bytes
	RoundTrip bool
	Err       error
}

// ContextFunc returns resolve context for the string with the sequence number
type ContextFunc func(seq uint64) (*sestring.Context, error)

func (r *Result) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("#%d: error: %v", r.Seq, r.Err)
	case r.Resolved != nil:
		return fmt.Sprintf("#%d: %q", r.Seq, r.Resolved.Text())
	case r.Decoded != nil:
		return fmt.Sprintf("#%d: %s", r.Seq, r.Decoded.String())
	}
	return fmt.Sprintf("#%d", r.Seq)
}

func (r *Result) NumRaw() int {
	if r.Decoded == nil {
		return 0
	}
	ret := 0
	for _, p := range r.Decoded.Payloads() {
		if p.Type() == sestring.PayloadRaw {
			ret++
		}
	}
	return ret
}

func decode(r *Result) {
	r.Err = common.CatchPanicOrError(func() error {
		var err error
		if r.Decoded, err = sestring.FromBytes(r.Input); err != nil {
			return err
		}
		r.RoundTrip = bytes.Equal(r.Decoded.Bytes(), r.Input)
		r.Hash = r.Decoded.Hash()
		return nil
	})
	if r.Err != nil {
		r.Err = fmt.Errorf("%s: %w", stageDecoder, r.Err)
	}
}

func resolve(r *Result, newContext ContextFunc) {
	if r.Err != nil || newContext == nil {
		return
	}
	r.Err = common.CatchPanicOrError(func() error {
		ctx, err := newContext(r.Seq)
		if err != nil {
			return fmt.Errorf("context: %w", err)
		}
		if ctx == nil {
			return errNoContext
		}
		r.Resolved, err = r.Decoded.Resolve(ctx)
		return err
	})
	if r.Err != nil {
		r.Err = fmt.Errorf("%s: %w", stageResolver, r.Err)
	}
}

// ResolveAll decodes and resolves inputs with at most parallel goroutines. Results are in input order.
// Failures of individual strings are reported in Result.Err, the error is only returned when ctx is done
func ResolveAll(ctx context.Context, inputs [][]byte, newContext ContextFunc, parallel int) ([]*Result, error) {
	ret := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, data := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := &Result{Seq: uint64(i), Input: data}
			decode(r)
			resolve(r, newContext)
			ret[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}
