package app

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"cyclic/hal"
	"cyclic/kernel"
)

var (
	colorBG     = color.RGBA{R: 0x08, G: 0x08, B: 0x08, A: 0xff}
	colorFG     = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorDim    = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	colorLEDOn  = color.RGBA{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff}
	colorLEDOff = color.RGBA{R: 0x24, G: 0x24, B: 0x24, A: 0xff}
)

// panel renders LED and counter state onto the HAL framebuffer. It is nil on
// targets without a usable framebuffer, and every method tolerates that.
type panel struct {
	d    *fbDisplay
	fb   hal.Framebuffer
	font tinyfont.Fonter
}

func newPanel(fb hal.Framebuffer) *panel {
	if fb == nil || fb.Width() <= 0 || fb.Height() <= 0 {
		return nil
	}
	return &panel{
		d:    &fbDisplay{fb: fb},
		fb:   fb,
		font: &proggy.TinySZ8pt7b,
	}
}

func (p *panel) draw(led bool, snap Stats, now kernel.Instant) {
	if p == nil {
		return
	}

	p.fb.ClearRGB(colorBG.R, colorBG.G, colorBG.B)

	ledColor := colorLEDOff
	if led {
		ledColor = colorLEDOn
	}
	p.d.fillRect(16, 16, 48, 48, ledColor)

	tinyfont.WriteLine(p.d, p.font, 80, 28, "cyclic", colorFG)
	tinyfont.WriteLine(p.d, p.font, 80, 44, fmt.Sprintf("cycle %d", uint32(now)), colorDim)
	tinyfont.WriteLine(p.d, p.font, 16, 92, fmt.Sprintf("beats %d", snap.Beats), colorFG)
	tinyfont.WriteLine(p.d, p.font, 16, 108, fmt.Sprintf("last  %d", snap.LastCycle), colorDim)

	_ = p.fb.Present()
}

// fbDisplay adapts the HAL framebuffer to the drivers.Displayer shape
// tinyfont draws on.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	return d.fb.Present()
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func (d *fbDisplay) fillRect(x, y, width, height int16, c color.RGBA) {
	for py := y; py < y+height; py++ {
		for px := x; px < x+width; px++ {
			d.SetPixel(px, py, c)
		}
	}
}

func rgb565From888(r, g, b uint8) uint16 {
	return (uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F)
}
