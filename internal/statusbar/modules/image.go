package modules

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shadebar/shade/internal/config"
	"github.com/shadebar/shade/internal/statusbar"
)

const pixbufCacheSize = 32

// ImageModule shows an image from a fixed path or from the first output line
// of a command, refreshed on a configurable interval. Decoded pixbufs are
// kept in an LRU cache keyed by path, mtime and size so unchanged files are
// not re-decoded on every refresh.
type ImageModule struct {
	*statusbar.BaseModule

	cfg          config.ImageConfig
	iconLabelCfg config.IconLabelConfig

	iconLabel *IconLabel
	cache     *lru.Cache[string, *gdk.Pixbuf]
	size      int
}

// NewImageModule creates an image module
func NewImageModule(cfg config.ImageConfig, ilCfg config.IconLabelConfig) (*ImageModule, error) {
	interval, once, err := ParseImageInterval(cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid image interval %q: %w", cfg.Interval, err)
	}

	mode := statusbar.UpdateModePeriodic
	if once {
		mode = statusbar.UpdateModeStatic
	}

	base := statusbar.NewBaseModule("image", mode)
	if !once {
		base.SetUpdateInterval(interval)
	}

	cache, err := lru.New[string, *gdk.Pixbuf](pixbufCacheSize)
	if err != nil {
		return nil, err
	}

	size := cfg.Size
	if size == 0 {
		size = 16
	}

	return &ImageModule{
		BaseModule:   base,
		cfg:          cfg,
		iconLabelCfg: ilCfg,
		cache:        cache,
		size:         size,
	}, nil
}

// ParseImageInterval parses the image refresh interval: "once" (or empty)
// means a single render, otherwise the value is seconds with a 1ms floor.
func ParseImageInterval(value string) (time.Duration, bool, error) {
	if value == "" || value == "once" {
		return 0, true, nil
	}

	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, err
	}

	interval := time.Duration(seconds * float64(time.Second))
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	return interval, false, nil
}

// ParseExecOutput splits a command's output into the image path (first line)
// and an optional caption (second line); further lines are ignored.
func ParseExecOutput(output string) (path, caption string) {
	lines := strings.Split(output, "\n")
	if len(lines) > 0 {
		path = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		caption = strings.TrimSpace(lines[1])
	}
	return path, caption
}

// CreateWidget builds the module's widget
func (m *ImageModule) CreateWidget() (gtk.IWidget, error) {
	il, err := NewIconLabel(m.iconLabelCfg)
	if err != nil {
		return nil, err
	}

	il.AddClass("image")
	m.iconLabel = il

	return il.Widget(), nil
}

// UpdateWidget refreshes the image from its configured source. Runs on the
// GTK main loop.
func (m *ImageModule) UpdateWidget(widget gtk.IWidget) error {
	if m.iconLabel == nil {
		return fmt.Errorf("image module has no widget")
	}

	path, caption := m.resolveSource()

	if path == "" || !fileExists(path) {
		m.iconLabel.ClearIcon()
		m.iconLabel.SetText("")
		m.iconLabel.AddClass("empty")
		return nil
	}

	pixbuf, err := m.loadPixbuf(path)
	if err != nil {
		m.iconLabel.ClearIcon()
		m.iconLabel.AddClass("empty")
		return fmt.Errorf("failed to load image %s: %w", path, err)
	}

	m.iconLabel.SetIconFromPixbuf(pixbuf)
	m.iconLabel.SetText(caption)
	m.iconLabel.RemoveClass("empty")

	return nil
}

// resolveSource determines the current image path and caption
func (m *ImageModule) resolveSource() (path, caption string) {
	if m.cfg.Path != "" {
		return m.cfg.Path, ""
	}

	if m.cfg.Exec != "" {
		out, err := exec.Command("sh", "-c", m.cfg.Exec).Output()
		if err != nil {
			return "", ""
		}
		return ParseExecOutput(string(out))
	}

	return "", ""
}

func (m *ImageModule) loadPixbuf(path string) (*gdk.Pixbuf, error) {
	key := m.cacheKey(path)
	if pixbuf, ok := m.cache.Get(key); ok {
		return pixbuf, nil
	}

	pixbuf, err := gdk.PixbufNewFromFileAtSize(path, m.size, m.size)
	if err != nil {
		return nil, err
	}

	m.cache.Add(key, pixbuf)
	return pixbuf, nil
}

// cacheKey ties a cache entry to the file's modification time so a changed
// file is re-decoded.
func (m *ImageModule) cacheKey(path string) string {
	var mtime int64
	if info, err := os.Stat(path); err == nil {
		mtime = info.ModTime().UnixNano()
	}
	return fmt.Sprintf("%s|%d|%d", path, mtime, m.size)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
