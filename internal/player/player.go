// Package player is the reading controller: it owns the open document, the
// current page's chunks and the narration state, and wires user actions to
// extraction and the speech sequencer.
package player

import (
	"log/slog"
	"sync"
	"time"

	"github.com/harkreader/hark/internal/chunk"
	"github.com/harkreader/hark/internal/document"
	"github.com/harkreader/hark/internal/extract"
	"github.com/harkreader/hark/internal/speech"
)

const (
	// MinRate and MaxRate bound the narration speed multiplier.
	MinRate = 0.5
	MaxRate = 2.0
	// RateStep is the increment used by the rate controls.
	RateStep = 0.25

	// Delay between stopping and restarting narration on a rate change, so
	// the speech backend can settle.
	rateSettleDelay = 200 * time.Millisecond
)

// Events emitted to the UI. Pull a fresh Snapshot after receiving one.
type (
	// DocumentLoaded fires when a document opened successfully.
	DocumentLoaded struct {
		Path      string
		PageCount int
	}
	// DocumentFailed fires when a document could not be parsed.
	DocumentFailed struct {
		Path string
		Err  error
	}
	// PageLoaded fires when extraction for the current page finished
	// (ChunkCount is zero when extraction failed or the page is empty).
	PageLoaded struct {
		Page       int
		ChunkCount int
	}
	// ChunkStarted fires when narration of a chunk begins.
	ChunkStarted struct{ Index int }
	// ChunkEnded fires when a chunk finished naturally.
	ChunkEnded struct{ Index int }
	// PlaybackFinished fires when the last chunk finished.
	PlaybackFinished struct{}
	// PlaybackFailed fires when synthesis failed; the run is over and Play
	// restarts from the failed chunk.
	PlaybackFailed struct {
		Index int
		Err   error
	}
)

// Event is one of the event structs above.
type Event any

// State is a copy of the player's composed state for rendering.
type State struct {
	Path      string
	PageCount int
	Page      int
	Chunks    []chunk.Chunk
	Loading   bool
	LoadErr   string

	Playing bool
	Paused  bool
	Index   int
	Rate    float64

	SpeechOK bool
}

// Player drives one document and one narration run at a time.
type Player struct {
	seq      *speech.Sequencer
	logger   *slog.Logger
	events   chan Event
	speechOK bool

	mu      sync.Mutex
	doc     document.Document
	path    string
	page    int
	chunks  []chunk.Chunk
	loading bool
	loadErr string
	playing bool
	paused  bool
	index   int
	rate    float64
	cancel  speech.CancelFunc
	gen     int
}

// New creates a player over the given speech engine. rate is the initial
// narration rate (clamped to the valid range).
func New(engine speech.Engine, logger *slog.Logger, rate float64) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		seq:      speech.NewSequencer(engine, logger),
		logger:   logger,
		events:   make(chan Event, 64),
		speechOK: engine.Supported(),
		rate:     clampRate(rate),
	}
}

// Events returns the channel the UI drains for state-change notifications.
func (p *Player) Events() <-chan Event {
	return p.events
}

// Snapshot returns a copy of the current state.
func (p *Player) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	pageCount := 0
	if p.doc != nil {
		pageCount = p.doc.PageCount()
	}
	return State{
		Path:      p.path,
		PageCount: pageCount,
		Page:      p.page,
		Chunks:    p.chunks,
		Loading:   p.loading,
		LoadErr:   p.loadErr,
		Playing:   p.playing,
		Paused:    p.paused,
		Index:     p.index,
		Rate:      p.rate,
		SpeechOK:  p.speechOK,
	}
}

// Open loads a new document in the background. Files with an unsupported
// extension are ignored silently. Any active narration is cancelled and the
// speech state reset (the rate is kept).
func (p *Player) Open(path string) {
	if !document.Supported(path) {
		p.logger.Info("ignoring unsupported file", "path", path)
		return
	}

	p.mu.Lock()
	c := p.stopLocked()
	p.chunks = nil
	p.page = 0
	p.loadErr = ""
	p.loading = true
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.runCancel(c)

	go func() {
		doc, err := document.Open(path)

		p.mu.Lock()
		if gen != p.gen {
			p.mu.Unlock()
			if err == nil {
				doc.Close()
			}
			return
		}
		if err != nil {
			p.loading = false
			p.loadErr = err.Error()
			p.mu.Unlock()
			p.logger.Error("document load failed", "path", path, "error", err)
			p.emit(DocumentFailed{Path: path, Err: err})
			return
		}
		if p.doc != nil {
			p.doc.Close()
		}
		p.doc = doc
		p.path = path
		p.mu.Unlock()

		p.logger.Info("document loaded", "path", path, "pages", doc.PageCount())
		p.emit(DocumentLoaded{Path: path, PageCount: doc.PageCount()})
		p.SetPage(1)
	}()
}

// SetPage makes n the current page and re-runs extraction for it. Narration
// is cancelled and the chunk index reset before the new chunks arrive; the
// previous chunk set is superseded unconditionally.
func (p *Player) SetPage(n int) {
	p.mu.Lock()
	doc := p.doc
	if doc == nil {
		p.mu.Unlock()
		return
	}
	if n < 1 {
		n = 1
	} else if n > doc.PageCount() {
		n = doc.PageCount()
	}

	c := p.stopLocked()
	p.chunks = nil
	p.page = n
	p.loadErr = ""
	p.loading = true
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.runCancel(c)

	go func() {
		frags, err := extract.Page(doc, n)
		var chunks []chunk.Chunk
		if err != nil {
			// Extraction failures leave the page empty; the user retries by
			// turning the page or reloading.
			p.logger.Error("extraction failed", "page", n, "error", err)
		} else {
			chunks = chunk.Group(frags, chunk.DefaultMaxSize)
		}

		p.mu.Lock()
		if gen != p.gen {
			p.mu.Unlock()
			return
		}
		p.loading = false
		p.chunks = chunks
		p.mu.Unlock()

		p.emit(PageLoaded{Page: n, ChunkCount: len(chunks)})
	}()
}

// NextPage and PrevPage turn pages, clamped to the document.
func (p *Player) NextPage() { p.turnPage(1) }
func (p *Player) PrevPage() { p.turnPage(-1) }

func (p *Player) turnPage(delta int) {
	p.mu.Lock()
	if p.doc == nil {
		p.mu.Unlock()
		return
	}
	n := p.page + delta
	count := p.doc.PageCount()
	p.mu.Unlock()

	if n < 1 || n > count {
		return
	}
	p.SetPage(n)
}

// NextSection jumps to the next outline entry after the current page, or the
// next page when the document has no outline.
func (p *Player) NextSection() {
	p.mu.Lock()
	doc, page := p.doc, p.page
	p.mu.Unlock()
	if doc == nil {
		return
	}
	for _, e := range doc.Outline() {
		if e.Page > page {
			p.SetPage(e.Page)
			return
		}
	}
	if len(doc.Outline()) == 0 {
		p.NextPage()
	}
}

// PrevSection jumps to the previous outline entry, or the previous page when
// the document has no outline.
func (p *Player) PrevSection() {
	p.mu.Lock()
	doc, page := p.doc, p.page
	p.mu.Unlock()
	if doc == nil {
		return
	}
	outline := doc.Outline()
	for i := len(outline) - 1; i >= 0; i-- {
		if outline[i].Page < page {
			p.SetPage(outline[i].Page)
			return
		}
	}
	if len(outline) == 0 {
		p.PrevPage()
	}
}

// Outline returns the open document's navigation entries, or nil.
func (p *Player) Outline() []document.OutlineEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc == nil {
		return nil
	}
	return p.doc.Outline()
}

// Play starts narration from the current chunk index, or resumes a paused
// run.
func (p *Player) Play() {
	p.mu.Lock()
	if !p.speechOK || p.loading || len(p.chunks) == 0 {
		p.mu.Unlock()
		return
	}
	if p.playing {
		resume := p.paused
		p.paused = false
		p.mu.Unlock()
		if resume {
			if err := p.seq.Resume(); err != nil {
				p.logger.Error("resume failed", "error", err)
			}
		}
		return
	}
	chunks := p.chunks
	from := p.index
	rate := p.rate
	p.playing = true
	p.paused = false
	p.mu.Unlock()

	p.startRun(chunks, from, rate)
}

func (p *Player) startRun(chunks []chunk.Chunk, from int, rate float64) {
	cancel := p.seq.Start(chunks, from, rate, speech.Hooks{
		OnChunkStart: func(i int) {
			p.mu.Lock()
			p.index = i
			p.mu.Unlock()
			p.emit(ChunkStarted{Index: i})
		},
		OnChunkEnd: func(i int) {
			p.emit(ChunkEnded{Index: i})
		},
		OnError: func(i int, err error) {
			p.mu.Lock()
			p.playing = false
			p.paused = false
			p.index = i
			p.cancel = nil
			p.mu.Unlock()
			p.emit(PlaybackFailed{Index: i, Err: err})
		},
		OnComplete: func() {
			p.mu.Lock()
			p.playing = false
			p.paused = false
			p.index = 0
			p.cancel = nil
			p.mu.Unlock()
			p.emit(PlaybackFinished{})
		},
	})

	p.mu.Lock()
	if p.playing {
		p.cancel = cancel
	}
	p.mu.Unlock()
}

// Pause suspends narration without cancelling the run.
func (p *Player) Pause() {
	p.mu.Lock()
	if !p.playing || p.paused {
		p.mu.Unlock()
		return
	}
	p.paused = true
	p.mu.Unlock()

	if err := p.seq.Pause(); err != nil {
		p.logger.Error("pause failed", "error", err)
	}
}

// PlayPause toggles between Play and Pause.
func (p *Player) PlayPause() {
	p.mu.Lock()
	pauseIt := p.playing && !p.paused
	p.mu.Unlock()
	if pauseIt {
		p.Pause()
	} else {
		p.Play()
	}
}

// Stop cancels narration and resets the chunk index. The rate is kept.
func (p *Player) Stop() {
	p.mu.Lock()
	c := p.stopLocked()
	p.mu.Unlock()
	p.runCancel(c)
}

// stopLocked resets speech state and detaches the cancel handle, which the
// caller must invoke outside the lock.
func (p *Player) stopLocked() speech.CancelFunc {
	c := p.cancel
	p.cancel = nil
	p.playing = false
	p.paused = false
	p.index = 0
	return c
}

func (p *Player) runCancel(c speech.CancelFunc) {
	if c != nil {
		c()
		return
	}
	p.seq.Stop()
}

// SetRate records a new narration rate. While actively playing, narration
// restarts from the current chunk after a short settle delay. While paused
// the utterance stays suspended; the new rate applies on the next fresh run.
func (p *Player) SetRate(rate float64) {
	rate = clampRate(rate)

	p.mu.Lock()
	p.rate = rate
	if !p.playing || p.paused {
		p.mu.Unlock()
		return
	}
	from := p.index
	c := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	p.runCancel(c)

	time.AfterFunc(rateSettleDelay, func() {
		p.mu.Lock()
		if !p.playing || from >= len(p.chunks) {
			p.mu.Unlock()
			return
		}
		chunks := p.chunks
		newRate := p.rate
		p.index = from
		p.mu.Unlock()

		p.startRun(chunks, from, newRate)
	})
}

// Rate returns the current narration rate.
func (p *Player) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// Close tears the player down, guaranteeing no narration outlives it.
func (p *Player) Close() {
	p.mu.Lock()
	c := p.stopLocked()
	doc := p.doc
	p.doc = nil
	p.gen++
	p.mu.Unlock()

	p.runCancel(c)
	if doc != nil {
		doc.Close()
	}
}

func (p *Player) emit(e Event) {
	select {
	case p.events <- e:
	default:
		p.logger.Warn("event dropped, UI not draining", "event", e)
	}
}

func clampRate(r float64) float64 {
	if r < MinRate {
		return MinRate
	}
	if r > MaxRate {
		return MaxRate
	}
	return r
}
