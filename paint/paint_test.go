package paint

import (
	"math"
	"testing"
)

func TestBlendColor(t *testing.T) {
	tests := []struct {
		a, b string
		t    float64
		want string
	}{
		{"#000000", "#ffffff", 0.5, "#808080"},
		{"#ff0000", "#0000ff", 0, "#ff0000"},
		{"#ff0000", "#0000ff", 1, "#0000ff"},
		{"#f00", "#00f", 0.5, "#800080"},
		{"red", "#0000ff", 0.4, "red"},
		{"red", "#0000ff", 0.6, "#0000ff"},
		{"#ff0000", "transparent", 0.5, "transparent"},
	}
	for _, tt := range tests {
		if got := BlendColor(tt.a, tt.b, tt.t); got != tt.want {
			t.Errorf("BlendColor(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		id   string
		isOK bool
	}{
		{"url(#g1)", "g1", true},
		{" url( '#g2' ) ", "g2", true},
		{Ref("abc"), "abc", true},
		{"#ff0000", "", false},
		{"url()", "", false},
	}
	for _, tt := range tests {
		id, ok := ParseRef(tt.in)
		if id != tt.id || ok != tt.isOK {
			t.Errorf("ParseRef(%q) = %q, %v", tt.in, id, ok)
		}
	}
}

func TestNewGradientSortsAndCopies(t *testing.T) {
	op := 0.5
	stops := []Stop{{Offset: 1, Color: "#fff"}, {Offset: 0, Color: "#000", Opacity: &op}}
	g := NewGradient("g", Linear{X2: 1}, stops)
	if g.Stops[0].Offset != 0 || g.Stops[1].Offset != 1 {
		t.Fatalf("stops not sorted: %+v", g.Stops)
	}
	op = 0.9
	if g.Stops[0].Alpha() != 0.5 {
		t.Error("stop opacity shares storage with the caller")
	}
	if stops[0].Offset != 1 {
		t.Error("caller slice was reordered")
	}
}

func TestBlendLinearHalfTurnKeepsLength(t *testing.T) {
	a := NewGradient("a", Linear{X1: 0, Y1: 0, X2: 100, Y2: 0}, []Stop{{0, "#000000", nil}, {1, "#ffffff", nil}})
	b := NewGradient("b", Linear{X1: 100, Y1: 0, X2: 0, Y2: 0}, []Stop{{0, "#000000", nil}, {1, "#ffffff", nil}})

	g := BlendGradients(a, b, 0.5)
	l, ok := g.Geometry.(Linear)
	if !ok {
		t.Fatalf("geometry = %T", g.Geometry)
	}
	length := math.Hypot(l.X2-l.X1, l.Y2-l.Y1)
	if length < 1 {
		t.Fatalf("vector collapsed: %+v", l)
	}
	if math.Abs(length-100) > 1e-9 {
		t.Errorf("length = %f, want 100", length)
	}
	if math.Abs((l.X1+l.X2)/2-50) > 1e-9 || math.Abs((l.Y1+l.Y2)/2) > 1e-9 {
		t.Errorf("center moved: %+v", l)
	}
}

func TestBlendLinearShortestAngle(t *testing.T) {
	// 170° to -170° is a 20° turn through 180°, not 340° back through 0°.
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	a := Linear{X2: math.Cos(rad(170)), Y2: math.Sin(rad(170))}
	b := Linear{X2: math.Cos(rad(-170)), Y2: math.Sin(rad(-170))}
	l := blendLinear(a, b, 0.5)
	angle := math.Atan2(l.Y2-l.Y1, l.X2-l.X1)
	if math.Abs(math.Abs(angle)-math.Pi) > 1e-9 {
		t.Errorf("midpoint angle = %f°, want 180°", angle*180/math.Pi)
	}
}

func TestBlendRadial(t *testing.T) {
	fx := 20.0
	a := NewGradient("a", Radial{CX: 0, CY: 0, R: 10}, nil)
	b := NewGradient("b", Radial{CX: 10, CY: 20, R: 30, FX: &fx}, nil)
	g := BlendGradients(a, b, 0.5)
	r := g.Geometry.(Radial)
	if r.CX != 5 || r.CY != 10 || r.R != 20 {
		t.Errorf("radial = %+v", r)
	}
	gotFX, gotFY := r.Focus()
	// a's focus defaults to its center (0,0); b's is (20,20).
	if gotFX != 10 || gotFY != 10 {
		t.Errorf("focus = (%f, %f), want (10, 10)", gotFX, gotFY)
	}
}

func TestBlendCrossTypeSnapsAtHalf(t *testing.T) {
	lin := NewGradient("l", Linear{X2: 10}, []Stop{{0, "#000000", nil}, {1, "#000000", nil}})
	rad := NewGradient("r", Radial{R: 5}, []Stop{{0, "#ffffff", nil}, {1, "#ffffff", nil}})

	if _, ok := BlendGradients(lin, rad, 0.49).Geometry.(Linear); !ok {
		t.Error("t=0.49 should keep the linear shape")
	}
	if _, ok := BlendGradients(lin, rad, 0.5).Geometry.(Radial); !ok {
		t.Error("t=0.5 should switch to the radial shape")
	}
	if got := BlendGradients(lin, rad, 0.5).Stops[0].Color; got != "#808080" {
		t.Errorf("stops still blend across kinds: got %s", got)
	}
}

func TestBlendGradientsFreshID(t *testing.T) {
	a := NewGradient("a", Linear{X2: 1}, []Stop{{0, "#000000", nil}})
	g1 := BlendGradients(a, a, 0.5)
	g2 := BlendGradients(a, a, 0.5)
	if g1.ID == "" || g1.ID == g2.ID || g1.ID == a.ID {
		t.Errorf("ids = %q, %q", g1.ID, g2.ID)
	}
}

func TestStopResampling(t *testing.T) {
	half := 0.0
	a := NewGradient("a", Linear{X2: 1}, []Stop{
		{Offset: 0, Color: "#000000"},
		{Offset: 1, Color: "#ffffff", Opacity: &half},
	})
	b := NewGradient("b", Linear{X2: 1}, []Stop{
		{Offset: 0, Color: "#000000"},
		{Offset: 0.5, Color: "#000000"},
		{Offset: 1, Color: "#000000"},
	})

	g := BlendGradients(a, b, 0)
	if len(g.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(g.Stops))
	}
	mid := g.Stops[1]
	if mid.Offset != 0.5 || mid.Color != "#808080" || math.Abs(mid.Alpha()-0.5) > 1e-9 {
		t.Errorf("resampled middle stop = %+v (alpha %f)", mid, mid.Alpha())
	}
}

func TestUniform(t *testing.T) {
	like := NewGradient("g", Radial{CX: 1, CY: 2, R: 3}, []Stop{{0, "#000", nil}, {0.3, "#111", nil}, {1, "#222", nil}})
	u := Uniform("#ff0000", like)
	if len(u.Stops) != 3 {
		t.Fatalf("stops = %d", len(u.Stops))
	}
	for i, s := range u.Stops {
		if s.Color != "#ff0000" || s.Offset != like.Stops[i].Offset {
			t.Errorf("stop %d = %+v", i, s)
		}
	}
	if r, ok := u.Geometry.(Radial); !ok || r.R != 3 {
		t.Errorf("geometry = %+v", u.Geometry)
	}
}

func TestBlendColorEasedSnapsOnProgress(t *testing.T) {
	if got := BlendColorEased("red", "blue", 0.6, 0.36); got != "blue" {
		t.Errorf("got %q, want blue", got)
	}
	if got := BlendColorEased("#000000", "#ffffff", 0.6, 0.25); got != "#404040" {
		t.Errorf("got %q, want #404040", got)
	}
}
