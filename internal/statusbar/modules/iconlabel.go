package modules

import (
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/shadebar/shade/internal/config"
)

// IconLabel is a composite widget pairing a gtk.Image with a gtk.Label. It is
// the building block for modules that show an icon next to text.
type IconLabel struct {
	box         *gtk.Box
	image       *gtk.Image
	label       *gtk.Label
	iconEnabled bool
}

// orientationForRotation maps a rotation in degrees to a box orientation.
// Only multiples of 90 are honored; anything else is treated as 0.
func orientationForRotation(rotate int) gtk.Orientation {
	rot := rotate % 360
	if rot < 0 || rot%90 != 0 {
		rot = 0
	}
	if (rot/90)%2 == 0 {
		return gtk.ORIENTATION_HORIZONTAL
	}
	return gtk.ORIENTATION_VERTICAL
}

// iconFirst decides the packing order of icon and label for a rotation and
// the swap flag.
func iconFirst(rotate int, swap bool) bool {
	rot := rotate % 360
	if rot < 0 || rot%90 != 0 {
		rot = 0
	}
	quarter := rot / 90
	return (quarter == 0 || quarter == 3) != swap
}

// NewIconLabel builds the composite widget from configuration
func NewIconLabel(cfg config.IconLabelConfig) (*IconLabel, error) {
	spacing := cfg.IconSpacing
	if spacing < 0 {
		spacing = 8
	}

	box, err := gtk.BoxNew(orientationForRotation(cfg.Rotate), spacing)
	if err != nil {
		return nil, err
	}

	image, err := gtk.ImageNew()
	if err != nil {
		return nil, err
	}

	label, err := gtk.LabelNew("")
	if err != nil {
		return nil, err
	}

	il := &IconLabel{
		box:         box,
		image:       image,
		label:       label,
		iconEnabled: cfg.Icon,
	}

	if iconFirst(cfg.Rotate, cfg.SwapIconLabel) {
		box.PackStart(image, false, false, 0)
		box.PackStart(label, false, false, 0)
	} else {
		box.PackStart(label, false, false, 0)
		box.PackStart(image, false, false, 0)
	}

	return il, nil
}

// Widget returns the outer container
func (il *IconLabel) Widget() gtk.IWidget {
	return il.box
}

// SetText sets the label text
func (il *IconLabel) SetText(text string) {
	il.label.SetText(text)
}

// SetMarkup sets the label content as Pango markup
func (il *IconLabel) SetMarkup(markup string) {
	il.label.SetMarkup(markup)
}

// SetIconFromPixbuf sets and shows the icon, unless icons are disabled
func (il *IconLabel) SetIconFromPixbuf(pixbuf *gdk.Pixbuf) {
	il.image.SetFromPixbuf(pixbuf)
	il.image.SetVisible(il.iconEnabled)
}

// ClearIcon clears and hides the icon
func (il *IconLabel) ClearIcon() {
	il.image.Clear()
	il.image.SetVisible(false)
}

// AddClass adds a style class to the outer container
func (il *IconLabel) AddClass(class string) {
	if ctx, err := il.box.GetStyleContext(); err == nil {
		ctx.AddClass(class)
	}
}

// RemoveClass removes a style class from the outer container
func (il *IconLabel) RemoveClass(class string) {
	if ctx, err := il.box.GetStyleContext(); err == nil {
		ctx.RemoveClass(class)
	}
}
