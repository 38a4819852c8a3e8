package modules

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/shadebar/shade/internal/config"
	"github.com/shadebar/shade/internal/statusbar"
)

// asciiMaxRange is the level ceiling requested from cava; one level per glyph
const asciiMaxRange = 7

// levelGlyphs maps a cava level to a bar glyph
var levelGlyphs = [asciiMaxRange + 1]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// CavaModule renders an audio spectrum by running the external cava binary
// in raw ASCII mode and translating its level frames into bar glyphs. All
// spectrum analysis happens in the cava process; this module only reads
// frames.
type CavaModule struct {
	*statusbar.BaseModule

	cfg   config.CavaConfig
	label *gtk.Label

	mu      sync.Mutex
	cmd     *exec.Cmd
	confDir string

	silentFrames int
	silence      bool
}

// NewCavaModule creates a cava module
func NewCavaModule(cfg config.CavaConfig) *CavaModule {
	if cfg.Bars <= 0 {
		cfg.Bars = 12
	}
	if cfg.Framerate <= 0 {
		cfg.Framerate = 30
	}

	return &CavaModule{
		BaseModule: statusbar.NewBaseModule("cava", statusbar.UpdateModeEventDriven),
		cfg:        cfg,
	}
}

// RenderFrame converts one raw ASCII frame ("0;3;7;...") into glyphs and
// reports whether every bar was at level zero. Levels above maxRange clamp
// to maxRange.
func RenderFrame(line string, maxRange int) (string, bool) {
	var b strings.Builder
	allZero := true

	for _, field := range strings.Split(line, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		level, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		if level < 0 {
			level = 0
		}
		if level > maxRange {
			level = maxRange
		}
		if level != 0 {
			allZero = false
		}

		b.WriteString(levelGlyphs[level])
	}

	return b.String(), allZero
}

// cavaConfigContents renders the raw-output cava configuration
func cavaConfigContents(cfg config.CavaConfig) string {
	var b strings.Builder

	b.WriteString("[general]\n")
	fmt.Fprintf(&b, "bars = %d\n", cfg.Bars)
	fmt.Fprintf(&b, "framerate = %d\n", cfg.Framerate)

	if cfg.Method != "" {
		b.WriteString("\n[input]\n")
		fmt.Fprintf(&b, "method = %s\n", cfg.Method)
	}

	b.WriteString("\n[output]\n")
	b.WriteString("method = raw\n")
	b.WriteString("raw_target = /dev/stdout\n")
	b.WriteString("data_format = ascii\n")
	fmt.Fprintf(&b, "ascii_max_range = %d\n", asciiMaxRange)
	b.WriteString("bar_delimiter = 59\n")
	b.WriteString("frame_delimiter = 10\n")

	return b.String()
}

// silenceThreshold is how many consecutive all-zero frames mark silence,
// roughly two seconds of output.
func (m *CavaModule) silenceThreshold() int {
	threshold := m.cfg.Framerate * 2
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

// CreateWidget builds the module's label
func (m *CavaModule) CreateWidget() (gtk.IWidget, error) {
	label, err := gtk.LabelNew("")
	if err != nil {
		return nil, err
	}

	if ctx, err := label.GetStyleContext(); err == nil {
		ctx.AddClass("cava")
	}

	m.label = label
	return label, nil
}

// UpdateWidget is a no-op; the backend reader pushes label updates itself
func (m *CavaModule) UpdateWidget(widget gtk.IWidget) error {
	return nil
}

// Initialize writes the cava configuration and starts the backend process
func (m *CavaModule) Initialize() error {
	confDir, err := os.MkdirTemp("", "shade-cava-")
	if err != nil {
		return fmt.Errorf("failed to create cava config dir: %w", err)
	}

	confPath := filepath.Join(confDir, "config")
	if err := os.WriteFile(confPath, []byte(cavaConfigContents(m.cfg)), 0644); err != nil {
		os.RemoveAll(confDir)
		return fmt.Errorf("failed to write cava config: %w", err)
	}

	cmd := exec.Command("cava", "-p", confPath)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.RemoveAll(confDir)
		return err
	}

	if err := cmd.Start(); err != nil {
		os.RemoveAll(confDir)
		return fmt.Errorf("failed to start cava: %w", err)
	}

	m.mu.Lock()
	m.cmd = cmd
	m.confDir = confDir
	m.mu.Unlock()

	go m.readFrames(bufio.NewScanner(stdout))

	return m.BaseModule.Initialize()
}

// Cleanup stops the backend process
func (m *CavaModule) Cleanup() error {
	m.mu.Lock()
	cmd := m.cmd
	confDir := m.confDir
	m.cmd = nil
	m.confDir = ""
	m.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
		cmd.Wait()
	}
	if confDir != "" {
		os.RemoveAll(confDir)
	}

	return nil
}

func (m *CavaModule) readFrames(scanner *bufio.Scanner) {
	for scanner.Scan() {
		frame, allZero := RenderFrame(scanner.Text(), asciiMaxRange)
		if frame == "" {
			continue
		}

		if allZero {
			m.silentFrames++
			if m.silentFrames >= m.silenceThreshold() && !m.silence {
				m.silence = true
				m.pushSilence()
			}
			continue
		}

		m.silentFrames = 0
		wasSilent := m.silence
		m.silence = false
		m.pushFrame(frame, wasSilent)
	}

	if err := scanner.Err(); err != nil {
		log.Printf("cava output read error: %v", err)
	}
}

func (m *CavaModule) pushFrame(frame string, wasSilent bool) {
	glib.IdleAdd(func() {
		if m.label == nil {
			return
		}
		if wasSilent {
			if ctx, err := m.label.GetStyleContext(); err == nil {
				ctx.RemoveClass("silent")
				ctx.AddClass("updated")
			}
		}
		m.label.SetText(frame)
		m.label.Show()
	})
}

func (m *CavaModule) pushSilence() {
	glib.IdleAdd(func() {
		if m.label == nil {
			return
		}
		if ctx, err := m.label.GetStyleContext(); err == nil {
			ctx.RemoveClass("updated")
			ctx.AddClass("silent")
		}
		switch {
		case m.cfg.HideOnSilence:
			m.label.Hide()
		case m.cfg.FormatSilent != "":
			m.label.SetMarkup(m.cfg.FormatSilent)
		}
	})
}
