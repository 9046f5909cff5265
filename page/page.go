// Package page models the scrollable document laid over the scene: a scroll
// offset, eased smooth scrolling, key-bound buttons and scroll listeners.
package page

import (
	"fmt"

	"github.com/fogleman/ease"
)

// Section is a named vertical band of the document.
type Section struct {
	Name   string
	Top    float64
	Height float64
}

func (s Section) Bottom() float64 { return s.Top + s.Height }

// Button scrolls the page to Target when pressed. An empty Target scrolls
// down by one viewport height from the top of the document.
type Button struct {
	Name   string
	Key    string
	Target string
}

type smoothScroll struct {
	from, to float64
	duration float64
	elapsed  float64
}

// Page is a virtual document of ContentHeight units viewed through a
// window of Viewport units.
type Page struct {
	ContentHeight  float64
	Viewport       float64
	SmoothDuration float64 // seconds, used by Press

	Sections []Section
	Buttons  []Button

	scrollY   float64
	scroll    *smoothScroll
	listeners []func(scrollY float64)
}

func New(contentHeight, viewport float64) *Page {
	return &Page{
		ContentHeight:  contentHeight,
		Viewport:       viewport,
		SmoothDuration: 0.8,
	}
}

// ScrollY is the offset of the top of the viewport from the top of the document.
func (p *Page) ScrollY() float64 { return p.scrollY }

// MaxScroll is the largest valid offset.
func (p *Page) MaxScroll() float64 {
	return max(0, p.ContentHeight-p.Viewport)
}

func (p *Page) clamp(y float64) float64 {
	return min(max(y, 0), p.MaxScroll())
}

// OnScroll registers fn to be called with the new offset whenever it changes.
func (p *Page) OnScroll(fn func(scrollY float64)) {
	p.listeners = append(p.listeners, fn)
}

func (p *Page) set(y float64) {
	y = p.clamp(y)
	if y == p.scrollY {
		return
	}
	p.scrollY = y
	for _, fn := range p.listeners {
		fn(y)
	}
}

// ScrollTo jumps to y, cancelling any smooth scroll.
func (p *Page) ScrollTo(y float64) {
	p.scroll = nil
	p.set(y)
}

// ScrollBy moves the offset by dy, cancelling any smooth scroll.
func (p *Page) ScrollBy(dy float64) {
	p.ScrollTo(p.scrollY + dy)
}

// SmoothScrollTo eases from the current offset to y over duration seconds.
// The motion advances in Step.
func (p *Page) SmoothScrollTo(y, duration float64) {
	y = p.clamp(y)
	if duration <= 0 {
		p.ScrollTo(y)
		return
	}
	p.scroll = &smoothScroll{from: p.scrollY, to: y, duration: duration}
}

// Scrolling reports whether a smooth scroll is in progress.
func (p *Page) Scrolling() bool { return p.scroll != nil }

// Step advances a smooth scroll by deltaSeconds. It has the signature of a
// frame update callback.
func (p *Page) Step(deltaSeconds float64) {
	s := p.scroll
	if s == nil {
		return
	}
	s.elapsed += deltaSeconds
	if s.elapsed >= s.duration {
		p.scroll = nil
		p.set(s.to)
		return
	}
	t := ease.InOutQuad(s.elapsed / s.duration)
	p.set(s.from + (s.to-s.from)*t)
}

// Section looks up a section by name.
func (p *Page) Section(name string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// ButtonForKey returns the button bound to key, if any.
func (p *Page) ButtonForKey(key string) (Button, bool) {
	for _, b := range p.Buttons {
		if b.Key == key {
			return b, true
		}
	}
	return Button{}, false
}

// Press starts the smooth scroll of the named button.
func (p *Page) Press(name string) error {
	for _, b := range p.Buttons {
		if b.Name != name {
			continue
		}
		target := p.Viewport
		if b.Target != "" {
			s, ok := p.Section(b.Target)
			if !ok {
				return fmt.Errorf("button %q: unknown section %q", name, b.Target)
			}
			target = s.Top
		}
		p.SmoothScrollTo(target, p.SmoothDuration)
		return nil
	}
	return fmt.Errorf("unknown button %q", name)
}
