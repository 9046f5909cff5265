package page

import "log"

// VisibilityLog logs sections as they scroll into and out of the viewport.
type VisibilityLog struct {
	Logger *log.Logger

	page    *Page
	visible map[string]bool
}

// NewVisibilityLog registers itself as a scroll listener of p and logs the
// sections visible at the current offset.
func NewVisibilityLog(p *Page, logger *log.Logger) *VisibilityLog {
	if logger == nil {
		logger = log.Default()
	}
	v := &VisibilityLog{
		Logger:  logger,
		page:    p,
		visible: make(map[string]bool),
	}
	v.Observe(p.ScrollY())
	p.OnScroll(v.Observe)
	return v
}

// Visible reports whether the named section was on screen at the last observation.
func (v *VisibilityLog) Visible(name string) bool {
	return v.visible[name]
}

// Observe checks every section against the viewport at scrollY.
func (v *VisibilityLog) Observe(scrollY float64) {
	top, bottom := scrollY, scrollY+v.page.Viewport
	for _, s := range v.page.Sections {
		in := s.Top < bottom && s.Bottom() > top
		if in == v.visible[s.Name] {
			continue
		}
		v.visible[s.Name] = in
		if in {
			v.Logger.Printf("[Scroll] section %q visible", s.Name)
		} else {
			v.Logger.Printf("[Scroll] section %q hidden", s.Name)
		}
	}
}
