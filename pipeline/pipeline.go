package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/lunfardo314/sestring/util/fifoqueue"
	"github.com/lunfardo314/sestring/util/waitingroom"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Pipeline decodes and resolves encoded strings on two goroutines connected by unbounded queues.
// Results are delivered to the output function in the order of Process calls
type Pipeline struct {
	log        *zap.SugaredLogger
	newContext ContextFunc
	output     func(r *Result)
	decoder    *fifoqueue.Queue[*Result]
	resolver   *fifoqueue.Queue[*Result]
	metrics    *Metrics
	statsEvery time.Duration
	wr         *waitingroom.WaitingRoom
	stages     sync.WaitGroup

	seq        atomic.Uint64
	numIn      atomic.Uint64
	numDecoded atomic.Uint64
	numRaw     atomic.Uint64
	mismatches atomic.Uint64
	resolved   atomic.Uint64
	errors     atomic.Uint64
}

type Stats struct {
	In                  uint64
	Decoded             uint64
	RawFallbacks        uint64
	RoundTripMismatches uint64
	Resolved            uint64
	Errors              uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("in: %d, decoded: %d, raw: %d, mismatches: %d, resolved: %d, errors: %d",
		s.In, s.Decoded, s.RawFallbacks, s.RoundTripMismatches, s.Resolved, s.Errors)
}

type Option func(p *Pipeline)

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithStatsEvery makes the pipeline log its stats periodically while running
func WithStatsEvery(d time.Duration) Option {
	return func(p *Pipeline) {
		p.statsEvery = d
	}
}

// New creates pipeline. newContext == nil means strings are only decoded. output may be nil
func New(log *zap.SugaredLogger, newContext ContextFunc, output func(r *Result), opts ...Option) *Pipeline {
	ret := &Pipeline{
		log:        log,
		newContext: newContext,
		output:     output,
		decoder:    fifoqueue.New[*Result](),
		resolver:   fifoqueue.New[*Result](),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *Pipeline) Start() {
	p.stages.Add(2)
	go p.runDecoder()
	go p.runResolver()

	if p.statsEvery > 0 {
		p.wr = waitingroom.New()
		log := p.log.Named("stats")
		p.wr.Repeat(p.statsEvery, func() {
			log.Infof("%s", p.Stats())
		})
	}
}

func (p *Pipeline) runDecoder() {
	defer p.stages.Done()

	log := p.log.Named(stageDecoder)
	log.Debugf("STARTED")

	p.decoder.Consume(func(r *Result) {
		decode(r)
		p.metrics.decoded(r)
		if r.Err != nil {
			p.errors.Inc()
			log.Debugf("#%d dropped. Reason: '%v'", r.Seq, r.Err)
		} else {
			p.numDecoded.Inc()
			if n := r.NumRaw(); n > 0 {
				p.numRaw.Add(uint64(n))
				log.Debugf("#%d: %d frame(s) kept raw", r.Seq, n)
			}
			if !r.RoundTrip {
				p.mismatches.Inc()
				log.Warnf("#%d: round trip mismatch", r.Seq)
			}
		}
		p.resolver.Write(r)
	})
	// close downstream
	p.resolver.Close()
	log.Debugf("STOPPED")
}

func (p *Pipeline) runResolver() {
	defer p.stages.Done()

	log := p.log.Named(stageResolver)
	log.Debugf("STARTED")

	p.resolver.Consume(func(r *Result) {
		if r.Err == nil && p.newContext != nil {
			resolve(r, p.newContext)
			p.metrics.resolved(r.Err)
			if r.Err != nil {
				p.errors.Inc()
				log.Debugf("#%d: %v", r.Seq, r.Err)
			} else if r.Resolved != nil {
				p.resolved.Inc()
			}
		}
		if p.output != nil {
			p.output(r)
		}
	})
	log.Debugf("STOPPED")
}

// Process queues the encoded string and returns its sequence number
func (p *Pipeline) Process(data []byte) uint64 {
	seq := p.seq.Inc() - 1
	p.numIn.Inc()
	p.decoder.Write(&Result{Seq: seq, Input: data})
	return seq
}

// Stop stops accepting strings. Queued strings are still processed
func (p *Pipeline) Stop() {
	p.decoder.Close()
}

// Wait blocks until all queued strings are processed after Stop
func (p *Pipeline) Wait() {
	p.stages.Wait()
	if p.wr != nil {
		p.wr.Stop()
	}
}

func (p *Pipeline) Stats() Stats {
	return Stats{
		In:                  p.numIn.Load(),
		Decoded:             p.numDecoded.Load(),
		RawFallbacks:        p.numRaw.Load(),
		RoundTripMismatches: p.mismatches.Load(),
		Resolved:            p.resolved.Load(),
		Errors:              p.errors.Load(),
	}
}
