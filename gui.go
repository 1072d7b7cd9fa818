//go:build gui

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/harkreader/hark/internal/document"
	"github.com/harkreader/hark/internal/player"
	"github.com/harkreader/hark/internal/settings"
	"github.com/harkreader/hark/internal/speech"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func guiStatus(st player.State, engineName string) string {
	if st.Path == "" {
		if st.LoadErr != "" {
			return "Failed to open: " + st.LoadErr
		}
		return "No document open"
	}
	s := fmt.Sprintf("%s | Page %d/%d | %.2fx | %s",
		filepath.Base(st.Path), st.Page, st.PageCount, st.Rate, engineName)
	switch {
	case st.Loading:
		s += " | Loading..."
	case st.LoadErr != "":
		s += " | Failed to open: " + st.LoadErr
	case st.Playing && st.Paused:
		s += " | PAUSED"
	case st.Playing:
		s += fmt.Sprintf(" | Reading %d/%d", st.Index+1, len(st.Chunks))
	}
	return s
}

func main() {
	rateFlag := flag.Float64("r", 0, "Narration rate (0.5-2.0; 0 uses the saved setting)")
	voiceFlag := flag.String("voice", "", "Voice name passed to the speech backend")
	engineFlag := flag.String("engine", "", "Preferred TTS binary (say, espeak-ng, espeak, flite, spd-say)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Hark - Document Read-Aloud Tool (GUI)\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  hark [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hark book.pdf             Open a PDF and read it aloud\n")
		fmt.Fprintf(os.Stderr, "  hark -r 1.5 notes.md      Narrate at 1.5x speed\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("hark %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	logger := newLogger()

	store, err := settings.NewStore()
	if err != nil {
		logger.Warn("settings unavailable", "error", err)
	}

	rate := settings.DefaultRate
	voice := *voiceFlag
	preferred := *engineFlag
	if store != nil {
		saved := store.Get()
		if saved.Rate > 0 {
			rate = saved.Rate
		}
		if voice == "" {
			voice = saved.Voice
		}
		if preferred == "" {
			preferred = saved.Engine
		}
	}
	if *rateFlag > 0 {
		rate = *rateFlag
	}

	engine := speech.NewPlatformEngine(voice, preferred)
	if !engine.Supported() {
		logger.Warn("no speech synthesizer on PATH, narration disabled")
	}

	p := player.New(engine, logger, rate)

	a := app.New()
	w := a.NewWindow("hark")

	st := p.Snapshot()

	statusLabel := widget.NewLabel(guiStatus(st, engine.Name()))
	statusLabel.Alignment = fyne.TextAlignCenter

	chunkList := widget.NewList(
		func() int { return len(st.Chunks) },
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Wrapping = fyne.TextWrapWord
			return lbl
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(st.Chunks) {
				return
			}
			lbl := obj.(*widget.Label)
			lbl.TextStyle.Bold = id == st.Index && st.Playing
			lbl.SetText(st.Chunks[id].Text)
		},
	)

	outlineVisible := false
	outlineList := widget.NewList(
		func() int { return len(p.Outline()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			outline := p.Outline()
			if id >= len(outline) {
				return
			}
			entry := outline[id]
			indent := strings.Repeat("  ", entry.Level)
			obj.(*widget.Label).SetText(indent + entry.Title)
		},
	)

	playBtn := widget.NewButton("Play", nil)
	stopBtn := widget.NewButton("Stop", func() { p.Stop() })
	slowerBtn := widget.NewButton("-", func() { p.SetRate(p.Rate() - player.RateStep) })
	fasterBtn := widget.NewButton("+", func() { p.SetRate(p.Rate() + player.RateStep) })
	prevBtn := widget.NewButton("< Page", func() { p.PrevPage() })
	nextBtn := widget.NewButton("Page >", func() { p.NextPage() })

	if !engine.Supported() {
		playBtn.Disable()
		stopBtn.Disable()
		slowerBtn.Disable()
		fasterBtn.Disable()
	}

	refresh := func() {
		st = p.Snapshot()
		statusLabel.SetText(guiStatus(st, engine.Name()))
		if st.Playing && !st.Paused {
			playBtn.SetText("Pause")
		} else {
			playBtn.SetText("Play")
		}
		chunkList.Refresh()
		if st.Playing && st.Index < len(st.Chunks) {
			chunkList.ScrollTo(st.Index)
		}
		outlineList.Refresh()
	}

	playBtn.OnTapped = func() {
		p.PlayPause()
		refresh()
	}

	openDocument := func() {
		fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			path := r.URI().Path()
			r.Close()
			p.Open(path)
			refresh()
		}, w)
		fd.SetFilter(storage.NewExtensionFileFilter(document.SupportedExtensions()))
		fd.Show()
	}
	openBtn := widget.NewButton("Open...", openDocument)

	outlineContainer := container.NewBorder(
		widget.NewLabel("Outline"),
		widget.NewLabel("Click to jump - T to close"),
		nil, nil,
		outlineList,
	)
	outlineContainer.Hide()

	readingContent := container.NewBorder(
		statusLabel,
		container.NewHBox(openBtn, playBtn, stopBtn, slowerBtn, fasterBtn, prevBtn, nextBtn),
		nil, nil,
		chunkList,
	)

	split := container.NewHSplit(outlineContainer, readingContent)
	split.Offset = 0.3

	toggleOutline := func() {
		if len(p.Outline()) == 0 {
			return
		}
		outlineVisible = !outlineVisible
		if outlineVisible {
			outlineContainer.Show()
		} else {
			outlineContainer.Hide()
		}
		split.Refresh()
	}

	outlineList.OnSelected = func(id widget.ListItemID) {
		outline := p.Outline()
		if id < len(outline) {
			p.SetPage(outline[id].Page)
			outlineVisible = false
			outlineContainer.Hide()
			split.Refresh()
		}
	}

	done := make(chan struct{})
	var closeOnce sync.Once

	go func() {
		for {
			select {
			case <-done:
				return
			case e := <-p.Events():
				if failed, ok := e.(player.DocumentFailed); ok {
					fyne.Do(func() {
						dialog.ShowError(failed.Err, w)
						refresh()
					})
					continue
				}
				fyne.Do(refresh)
			}
		}
	}()

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			if engine.Supported() {
				p.PlayPause()
				refresh()
			}

		case fyne.KeyLeft:
			p.PrevPage()

		case fyne.KeyRight:
			p.NextPage()

		case fyne.KeyUp:
			if engine.Supported() {
				p.SetRate(p.Rate() + player.RateStep)
				refresh()
			}

		case fyne.KeyDown:
			if engine.Supported() {
				p.SetRate(p.Rate() - player.RateStep)
				refresh()
			}

		case fyne.KeyQ:
			w.Close()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 's', 'S':
			if engine.Supported() {
				p.Stop()
				refresh()
			}
		case 'o', 'O':
			openDocument()
		case 't', 'T':
			toggleOutline()
		}
	})

	w.SetOnClosed(func() {
		closeOnce.Do(func() { close(done) })
		p.Close()
		if store != nil {
			if err := store.SetRate(p.Rate()); err != nil {
				logger.Warn("saving settings", "error", err)
			}
			if voice != "" && voice != store.Get().Voice {
				if err := store.SetVoice(voice); err != nil {
					logger.Warn("saving settings", "error", err)
				}
			}
			if *engineFlag != "" && *engineFlag != store.Get().Engine {
				if err := store.SetEngine(*engineFlag); err != nil {
					logger.Warn("saving settings", "error", err)
				}
			}
		}
	})

	if flag.NArg() > 0 {
		p.Open(flag.Arg(0))
	}

	w.Resize(fyne.NewSize(900, 600))
	w.SetContent(split)
	w.ShowAndRun()
}
