package page

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-9

func newTestPage() *Page {
	p := New(3000, 720)
	p.Sections = []Section{
		{Name: "hero", Top: 0, Height: 720},
		{Name: "about", Top: 720, Height: 900},
		{Name: "projects", Top: 1620, Height: 1380},
	}
	p.Buttons = []Button{
		{Name: "scroll-me", Key: "enter"},
		{Name: "projects", Key: "p", Target: "projects"},
	}
	return p
}

func TestScrollClamps(t *testing.T) {
	p := newTestPage()

	p.ScrollBy(-50)
	if p.ScrollY() != 0 {
		t.Errorf("expected 0, got %f", p.ScrollY())
	}
	p.ScrollTo(10000)
	if p.ScrollY() != 2280 {
		t.Errorf("expected max scroll 2280, got %f", p.ScrollY())
	}
}

func TestShortContentCannotScroll(t *testing.T) {
	p := New(400, 720)
	p.ScrollBy(100)
	if p.ScrollY() != 0 {
		t.Errorf("expected 0, got %f", p.ScrollY())
	}
}

func TestListenersFireOnChangeOnly(t *testing.T) {
	p := newTestPage()
	var got []float64
	p.OnScroll(func(y float64) { got = append(got, y) })

	p.ScrollTo(100)
	p.ScrollTo(100)
	p.ScrollBy(-1000)

	if len(got) != 2 || got[0] != 100 || got[1] != 0 {
		t.Errorf("unexpected notifications %v", got)
	}
}

func TestSmoothScrollReachesTargetExactly(t *testing.T) {
	p := newTestPage()
	p.SmoothScrollTo(1000, 0.75)

	var last float64
	for i := 0; i < 7; i++ {
		p.Step(0.1)
		if p.ScrollY() < last {
			t.Fatalf("smooth scroll went backwards at step %d", i)
		}
		last = p.ScrollY()
	}
	if !p.Scrolling() || p.ScrollY() >= 1000 {
		t.Fatalf("expected scroll in progress, at %f", p.ScrollY())
	}
	p.Step(0.1)
	if p.Scrolling() {
		t.Error("expected smooth scroll to finish")
	}
	if p.ScrollY() != 1000 {
		t.Errorf("expected exactly 1000, got %f", p.ScrollY())
	}
}

func TestSmoothScrollIsEased(t *testing.T) {
	p := newTestPage()
	p.SmoothScrollTo(1000, 1)
	p.Step(0.5)
	if math.Abs(p.ScrollY()-500) > epsilon {
		t.Errorf("expected halfway at 500, got %f", p.ScrollY())
	}

	p = newTestPage()
	p.SmoothScrollTo(1000, 1)
	p.Step(0.25)
	if p.ScrollY() >= 250 {
		t.Errorf("expected slow start, got %f", p.ScrollY())
	}
}

func TestSmoothScrollClampsTarget(t *testing.T) {
	p := newTestPage()
	p.SmoothScrollTo(99999, 0.5)
	p.Step(1)
	if p.ScrollY() != p.MaxScroll() {
		t.Errorf("expected %f, got %f", p.MaxScroll(), p.ScrollY())
	}
}

func TestUserScrollCancelsSmoothScroll(t *testing.T) {
	p := newTestPage()
	p.SmoothScrollTo(1000, 1)
	p.Step(0.2)
	p.ScrollBy(10)
	if p.Scrolling() {
		t.Error("expected wheel scroll to cancel smooth scroll")
	}
}

func TestPressButtons(t *testing.T) {
	p := newTestPage()

	if err := p.Press("scroll-me"); err != nil {
		t.Fatal(err)
	}
	p.Step(10)
	if p.ScrollY() != 720 {
		t.Errorf("expected one viewport down, got %f", p.ScrollY())
	}

	if err := p.Press("projects"); err != nil {
		t.Fatal(err)
	}
	p.Step(10)
	if p.ScrollY() != 1620 {
		t.Errorf("expected projects top, got %f", p.ScrollY())
	}

	if err := p.Press("missing"); err == nil {
		t.Error("expected error for unknown button")
	}
	p.Buttons = append(p.Buttons, Button{Name: "bad", Target: "nowhere"})
	if err := p.Press("bad"); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestButtonForKey(t *testing.T) {
	p := newTestPage()
	b, ok := p.ButtonForKey("p")
	if !ok || b.Name != "projects" {
		t.Errorf("unexpected lookup result %v %v", b, ok)
	}
	if _, ok := p.ButtonForKey("q"); ok {
		t.Error("expected no button for q")
	}
}

func TestVisibilityLogTransitions(t *testing.T) {
	p := newTestPage()
	var buf bytes.Buffer
	v := NewVisibilityLog(p, log.New(&buf, "", 0))

	if !v.Visible("hero") || v.Visible("about") {
		t.Fatalf("unexpected initial visibility: %q", buf.String())
	}

	p.ScrollTo(100)  // hero + about
	p.ScrollTo(200)  // no change
	p.ScrollTo(1000) // about + projects
	p.ScrollTo(1700) // projects only

	want := []string{
		`[Scroll] section "hero" visible`,
		`[Scroll] section "about" visible`,
		`[Scroll] section "hero" hidden`,
		`[Scroll] section "projects" visible`,
		`[Scroll] section "about" hidden`,
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(got), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCameraRig(t *testing.T) {
	rig := NewCameraRig(mgl32.Vec3{}, mgl32.Vec3{0, 0, 85}, 12, 0.0015)

	if math.Abs(rig.Radius(0)-85) > 1e-4 {
		t.Errorf("expected base radius 85, got %f", rig.Radius(0))
	}
	prev := rig.Radius(0)
	for y := 100.0; y <= 20000; y += 100 {
		r := rig.Radius(y)
		if r > prev {
			t.Fatalf("radius increased at %f", y)
		}
		if r < 12 {
			t.Fatalf("radius below minimum at %f: %f", y, r)
		}
		prev = r
	}
	if prev-12 > 1e-3 {
		t.Errorf("expected radius to approach 12, got %f", prev)
	}

	pos := rig.Position(0)
	if !pos.ApproxEqualThreshold(mgl32.Vec3{0, 0, 85}, 1e-4) {
		t.Errorf("expected start position, got %v", pos)
	}
}
