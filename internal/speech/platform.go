package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
)

// speakArgs builds the argument list for one TTS binary. rate is the speed
// multiplier, voice may be empty.
type speakArgs func(text string, rate float64, voice string) []string

// Candidate binaries in preference order. Each maps the 1.0-based rate
// multiplier onto its own speed unit.
var platformBackends = []struct {
	bin  string
	args speakArgs
}{
	{"say", func(text string, rate float64, voice string) []string {
		args := []string{"-r", strconv.Itoa(int(rate * 175))}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		return append(args, text)
	}},
	{"espeak-ng", espeakArgs},
	{"espeak", espeakArgs},
	{"flite", func(text string, rate float64, voice string) []string {
		args := []string{"--setf", fmt.Sprintf("duration_stretch=%.2f", 1/rate)}
		if voice != "" {
			args = append(args, "-voice", voice)
		}
		return append(args, "-t", text)
	}},
	{"spd-say", func(text string, rate float64, voice string) []string {
		// spd-say rate runs -100..100 around normal pace.
		r := int((rate - 1) * 100)
		if r > 100 {
			r = 100
		} else if r < -100 {
			r = -100
		}
		return []string{"-w", "-r", strconv.Itoa(r), text}
	}},
}

func espeakArgs(text string, rate float64, voice string) []string {
	args := []string{"-s", strconv.Itoa(int(rate * 160))}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return append(args, text)
}

// PlatformEngine synthesizes speech through the system TTS command (say,
// espeak-ng, espeak, flite or spd-say, whichever is on PATH). Pause and
// resume suspend the synthesis process; cancel kills it.
type PlatformEngine struct {
	bin   string
	args  speakArgs
	voice string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewPlatformEngine probes PATH for a usable TTS binary. A non-empty
// preferred name wins when that binary exists; otherwise the first match in
// preference order is used. The returned engine reports Supported() == false
// when none exists; Speak then fails.
func NewPlatformEngine(voice, preferred string) *PlatformEngine {
	e := &PlatformEngine{voice: voice}
	if preferred != "" {
		for _, b := range platformBackends {
			if b.bin == preferred {
				if _, err := exec.LookPath(b.bin); err == nil {
					e.bin = b.bin
					e.args = b.args
					return e
				}
				break
			}
		}
	}
	for _, b := range platformBackends {
		if _, err := exec.LookPath(b.bin); err == nil {
			e.bin = b.bin
			e.args = b.args
			break
		}
	}
	return e
}

func (e *PlatformEngine) Supported() bool { return e.bin != "" }

func (e *PlatformEngine) Name() string {
	if e.bin == "" {
		return "none"
	}
	return e.bin
}

// Speak synthesizes text and blocks until the utterance ends or ctx is
// cancelled.
func (e *PlatformEngine) Speak(ctx context.Context, text string, rate float64) error {
	if e.bin == "" {
		return fmt.Errorf("no speech synthesizer available")
	}
	if rate <= 0 {
		rate = 1.0
	}

	cmd := exec.CommandContext(ctx, e.bin, e.args(text, rate, e.voice)...)

	e.mu.Lock()
	if e.cmd != nil {
		e.mu.Unlock()
		return fmt.Errorf("utterance already in flight")
	}
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("start %s: %w", e.bin, err)
	}
	e.cmd = cmd
	e.mu.Unlock()

	err := cmd.Wait()

	e.mu.Lock()
	e.cmd = nil
	e.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", e.bin, err)
	}
	return nil
}

// Pause suspends the in-flight utterance. No-op when nothing is speaking.
func (e *PlatformEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return nil
	}
	return suspendProcess(e.cmd.Process)
}

// Resume continues a paused utterance.
func (e *PlatformEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return nil
	}
	return resumeProcess(e.cmd.Process)
}

// Cancel stops the in-flight utterance immediately. Idempotent.
func (e *PlatformEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return
	}
	// Resume first so a paused process can observe the kill.
	_ = resumeProcess(e.cmd.Process)
	_ = e.cmd.Process.Kill()
}

var _ Engine = (*PlatformEngine)(nil)
