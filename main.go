//go:build !gui

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

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

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	currentChunkStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#00FFFF"))

	chunkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

type model struct {
	player  *player.Player
	picker  filepicker.Model
	spin    spinner.Model
	st      player.State
	picking bool

	quitting bool
	width    int
	height   int
}

// playerEventMsg carries one player event into the bubbletea loop.
type playerEventMsg struct {
	event player.Event
}

func waitForEvent(events <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		return playerEventMsg{event: <-events}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.player.Events()))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playerEventMsg:
		m.st = m.player.Snapshot()
		return m, waitForEvent(m.player.Events())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.Height = msg.Height - 4
		return m, nil
	}

	if m.picking {
		return m.updatePicker(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.picking = false
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.player.Open(path)
		m.st = m.player.Snapshot()
	}
	return m, cmd
}

func (m model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case " ":
		if m.st.SpeechOK {
			m.player.PlayPause()
		}

	case "s":
		if m.st.SpeechOK {
			m.player.Stop()
		}

	case "left":
		m.player.PrevPage()

	case "right":
		m.player.NextPage()

	case "[":
		m.player.PrevSection()

	case "]":
		m.player.NextSection()

	case "up", "+", "=":
		if m.st.SpeechOK {
			m.player.SetRate(m.player.Rate() + player.RateStep)
		}

	case "down", "-":
		if m.st.SpeechOK {
			m.player.SetRate(m.player.Rate() - player.RateStep)
		}

	case "o", "O":
		m.picking = true
		return m, m.picker.Init()

	case "q", "Q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	m.st = m.player.Snapshot()
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	if m.picking {
		return titleStyle.Render("Open a document") + "\n\n" +
			m.picker.View() + "\n" +
			controlsStyle.Render("ENTER: open  ESC: cancel")
	}

	var sb strings.Builder

	status := statusLine(m.st)
	if m.st.Loading {
		status += " " + m.spin.View()
	}
	sb.WriteString(statusStyle.Render(status))
	sb.WriteString("\n\n")

	switch {
	case m.st.LoadErr != "":
		sb.WriteString(errorStyle.Render("Failed to open: " + m.st.LoadErr))
		sb.WriteString("\n")
	case m.st.Path == "":
		sb.WriteString(chunkStyle.Render("Press O to open a document."))
		sb.WriteString("\n")
	default:
		// Status, blank line, optional notice, controls.
		bodyHeight := m.height - 5
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		sb.WriteString(renderChunks(m.st, m.width, bodyHeight))
		sb.WriteString("\n")
	}

	if !m.st.SpeechOK {
		sb.WriteString("\n")
		sb.WriteString(noticeStyle.Render("No speech synthesizer found; narration is disabled."))
	}

	sb.WriteString("\n")
	sb.WriteString(controlsStyle.Render(controls(m.st.SpeechOK)))

	return sb.String()
}

// statusLine formats the header line for the current state.
func statusLine(st player.State) string {
	if st.Path == "" {
		return "No document open"
	}
	s := fmt.Sprintf("%s | Page %d/%d | %.2fx",
		filepath.Base(st.Path), st.Page, st.PageCount, st.Rate)
	switch {
	case st.Playing && st.Paused:
		s += " | PAUSED"
	case st.Playing:
		s += fmt.Sprintf(" | Playing %d/%d", st.Index+1, len(st.Chunks))
	}
	return s
}

// renderChunks draws the page's chunk list with the narrated chunk marked.
func renderChunks(st player.State, width, height int) string {
	if st.Loading {
		return chunkStyle.Render("Loading page...")
	}
	if len(st.Chunks) == 0 {
		return chunkStyle.Render("This page has no readable text.")
	}

	start, end := chunkWindow(len(st.Chunks), st.Index, height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := truncate(st.Chunks[i].Text, width-4)
		switch {
		case i == st.Index && st.Playing:
			lines = append(lines, currentChunkStyle.Render("▶ "+text))
		case i == st.Index:
			lines = append(lines, currentChunkStyle.Render("› "+text))
		default:
			lines = append(lines, chunkStyle.Render("  "+text))
		}
	}
	return strings.Join(lines, "\n")
}

// chunkWindow returns the half-open range of chunk indexes to display so the
// current index stays roughly centered.
func chunkWindow(n, index, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := index - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > n {
		end = n
		start = end - height
	}
	return start, end
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(r[:w-1]) + "…"
}

func controls(speechOK bool) string {
	if !speechOK {
		return "←/→: page  [/]: section  O: open  Q: quit"
	}
	return "SPACE: play/pause  S: stop  ←/→: page  [/]: section  ↑/↓: rate  O: open  Q: quit"
}

func newModel(p *player.Player) model {
	fp := filepicker.New()
	fp.AllowedTypes = document.SupportedExtensions()
	if dir, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = dir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		player: p,
		picker: fp,
		spin:   sp,
		st:     p.Snapshot(),
		width:  80,
		height: 24,
	}
}

func main() {
	rateFlag := flag.Float64("r", 0, "Narration rate (0.5-2.0; 0 uses the saved setting)")
	voiceFlag := flag.String("voice", "", "Voice name passed to the speech backend")
	engineFlag := flag.String("engine", "", "Preferred TTS binary (say, espeak-ng, espeak, flite, spd-say)")
	listFormats := flag.Bool("formats", false, "List supported document formats")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Hark - Document Read-Aloud Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  hark [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hark book.pdf             Open a PDF and read it aloud\n")
		fmt.Fprintf(os.Stderr, "  hark -r 1.5 notes.md      Narrate at 1.5x speed\n")
		fmt.Fprintf(os.Stderr, "  hark -voice Daniel a.epub Use a specific voice\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  SPACE    Play/pause narration\n")
		fmt.Fprintf(os.Stderr, "  S        Stop narration\n")
		fmt.Fprintf(os.Stderr, "  ←/→      Previous/next page\n")
		fmt.Fprintf(os.Stderr, "  [/]      Previous/next section\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓      Adjust narration rate by 0.25\n")
		fmt.Fprintf(os.Stderr, "  O        Open a document\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("hark %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *listFormats {
		for _, f := range document.SupportedFormats() {
			fmt.Println(f)
		}
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
	} else {
		logger.Info("speech backend selected", "engine", engine.Name())
	}

	p := player.New(engine, logger, rate)
	if flag.NArg() > 0 {
		p.Open(flag.Arg(0))
	}

	prog := tea.NewProgram(newModel(p), tea.WithAltScreen())
	_, runErr := prog.Run()

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

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
