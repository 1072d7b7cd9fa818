package speech

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/harkreader/hark/internal/chunk"
)

// Hooks receive chunk-boundary notifications during a sequencer run. They
// are invoked from the run's goroutine, strictly in index order: OnChunkStart
// immediately before a chunk's synthesis begins, OnChunkEnd after it finishes
// naturally, OnComplete exactly once after the last chunk's OnChunkEnd. A
// synthesis failure ends the run with a single OnError; no hook fires after
// it. After cancellation no hook fires again.
type Hooks struct {
	OnChunkStart func(index int)
	OnChunkEnd   func(index int)
	OnError      func(index int, err error)
	OnComplete   func()
}

// CancelFunc cancels a sequencer run. Safe to call multiple times.
type CancelFunc func()

// Sequencer narrates chunk lists through an Engine, one run at a time. The
// speech backend is a process-wide singleton, so starting a run cancels any
// run still active; call sites never have to coordinate.
type Sequencer struct {
	engine Engine
	logger *slog.Logger

	mu     sync.Mutex
	active *run
}

// NewSequencer returns a sequencer over the given engine.
func NewSequencer(engine Engine, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{engine: engine, logger: logger}
}

type run struct {
	id     string
	ctx    context.Context
	stop   context.CancelFunc
	engine Engine

	mu        sync.Mutex
	cancelled bool
}

func (r *run) cancel() {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	r.cancelled = true
	r.mu.Unlock()

	r.stop()
	r.engine.Cancel()
}

func (r *run) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// Start narrates chunks[from:] at the given rate. An empty chunk list
// completes synchronously. The returned CancelFunc stops the current
// utterance immediately and prevents any further hook from firing; it is
// idempotent.
func (s *Sequencer) Start(chunks []chunk.Chunk, from int, rate float64, h Hooks) CancelFunc {
	if len(chunks) == 0 || from >= len(chunks) {
		if h.OnComplete != nil {
			h.OnComplete()
		}
		return func() {}
	}
	if from < 0 {
		from = 0
	}

	ctx, stop := context.WithCancel(context.Background())
	r := &run{
		id:     uuid.NewString(),
		ctx:    ctx,
		stop:   stop,
		engine: s.engine,
	}

	s.mu.Lock()
	if s.active != nil {
		s.active.cancel()
	}
	s.active = r
	s.mu.Unlock()

	s.logger.Debug("sequencer run starting",
		"run", r.id, "chunks", len(chunks), "from", from, "rate", rate)

	go s.narrate(r, chunks, from, rate, h)

	return r.cancel
}

func (s *Sequencer) narrate(r *run, chunks []chunk.Chunk, from int, rate float64, h Hooks) {
	defer s.clearActive(r)

	for i := from; i < len(chunks); i++ {
		if r.isCancelled() {
			return
		}
		if h.OnChunkStart != nil {
			h.OnChunkStart(i)
		}

		err := s.engine.Speak(r.ctx, chunks[i].Text, rate)

		if r.isCancelled() {
			return
		}
		if err != nil {
			// Terminal for the run: no retry, no further chunks.
			s.logger.Error("synthesis failed", "run", r.id, "chunk", i, "error", err)
			if h.OnError != nil {
				h.OnError(i, err)
			}
			return
		}
		if h.OnChunkEnd != nil {
			h.OnChunkEnd(i)
		}
	}

	if r.isCancelled() {
		return
	}
	s.logger.Debug("sequencer run complete", "run", r.id)
	if h.OnComplete != nil {
		h.OnComplete()
	}
}

func (s *Sequencer) clearActive(r *run) {
	s.mu.Lock()
	if s.active == r {
		s.active = nil
	}
	s.mu.Unlock()
}

// Pause suspends the in-flight utterance. Only meaningful while a run is
// speaking; the chunk index does not move.
func (s *Sequencer) Pause() error {
	return s.engine.Pause()
}

// Resume continues a paused utterance.
func (s *Sequencer) Resume() error {
	return s.engine.Resume()
}

// Stop cancels the active run if there is one and unconditionally stops the
// engine. Used for cross-component cleanup when no cancel handle is held.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	r := s.active
	s.mu.Unlock()

	if r != nil {
		r.cancel()
		return
	}
	s.engine.Cancel()
}
