package preview

import (
	"context"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/matt-g-everett/motiontx/motion"
	"github.com/matt-g-everett/motiontx/paint"
)

const square = "M50 50 L150 50 L150 150 L50 150 Z"

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func isRed(c color.NRGBA) bool {
	return c.R > 200 && c.G < 60 && c.B < 60 && c.A > 200
}

func redState() motion.ActorState {
	return motion.ActorState{Scale: motion.UniformScale(1), Opacity: 1, Fill: motion.Ptr("#ff0000")}
}

func TestRenderFill(t *testing.T) {
	actor, _ := motion.NewActor("sq", []string{square})
	dc, err := Render(actor, redState(), Options{Width: 200, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	img := dc.Image()
	if c := pixel(img, 100, 100); !isRed(c) {
		t.Errorf("center = %+v, want red", c)
	}
	if c := pixel(img, 10, 10); c.A != 0 {
		t.Errorf("corner = %+v, want transparent", c)
	}
}

func TestRenderTransform(t *testing.T) {
	actor, _ := motion.NewActor("sq", []string{square})
	st := redState()
	st.Position = motion.Point{X: 50}
	dc, err := Render(actor, st, Options{Width: 200, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	img := dc.Image()
	if c := pixel(img, 75, 100); c.A != 0 {
		t.Errorf("vacated pixel = %+v", c)
	}
	if c := pixel(img, 175, 100); !isRed(c) {
		t.Errorf("moved pixel = %+v", c)
	}

	st = redState()
	st.Scale = motion.UniformScale(0.5)
	dc, err = Render(actor, st, Options{Width: 200, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	if c := pixel(dc.Image(), 60, 60); c.A != 0 {
		t.Errorf("scaled square still covers %+v", c)
	}
	if c := pixel(dc.Image(), 100, 100); !isRed(c) {
		t.Errorf("scaled center = %+v", c)
	}
}

func TestRenderOpacityAndBackground(t *testing.T) {
	actor, _ := motion.NewActor("sq", []string{square})
	st := redState()
	st.Opacity = 0
	dc, err := Render(actor, st, Options{Width: 200, Height: 200, Background: "#0000ff"})
	if err != nil {
		t.Fatal(err)
	}
	if c := pixel(dc.Image(), 100, 100); c.B < 200 || c.R > 60 {
		t.Errorf("invisible actor painted %+v", c)
	}
}

func TestRenderMorphedOutlineAndGradient(t *testing.T) {
	actor, _ := motion.NewActor("sq", []string{"M0 0 L1 0 L1 1 Z"})
	g := paint.NewGradient("g", paint.Linear{X1: 0, X2: 200}, []paint.Stop{
		{Offset: 0, Color: "#ff0000"}, {Offset: 1, Color: "#ff0000"},
	})
	st := motion.ActorState{
		Scale: motion.UniformScale(1), Opacity: 1,
		Fill: motion.Ptr(paint.Ref("g")), FillGradient: &g,
		PathOutline: motion.Ptr(square),
	}
	dc, err := Render(actor, st, Options{Width: 200, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	if c := pixel(dc.Image(), 100, 100); !isRed(c) {
		t.Errorf("center = %+v", c)
	}
}

func TestRenderBadOutline(t *testing.T) {
	actor, _ := motion.NewActor("bad", []string{"Q 1"})
	if _, err := Render(actor, redState(), Options{}); err == nil {
		t.Error("expected error")
	}
}

func TestFrameTimes(t *testing.T) {
	tests := []struct {
		duration, fps float64
		want          []float64
	}{
		{1000, 10, []float64{0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}},
		{250, 10, []float64{0, 100, 200, 250}},
		{0, 30, []float64{0}},
	}
	for _, tt := range tests {
		got := FrameTimes(tt.duration, tt.fps)
		if len(got) != len(tt.want) {
			t.Errorf("FrameTimes(%v, %v) = %v", tt.duration, tt.fps, got)
			continue
		}
		for i := range got {
			if d := got[i] - tt.want[i]; d > 1e-9 || d < -1e-9 {
				t.Errorf("FrameTimes(%v, %v)[%d] = %v, want %v", tt.duration, tt.fps, i, got[i], tt.want[i])
			}
		}
	}
}

func TestExportFrames(t *testing.T) {
	actor, _ := motion.NewActor("sq", []string{square})
	tl, err := motion.BuildTimeline(actor, []motion.Keyframe{
		{At: 0, Fill: motion.Ptr("#ff0000")},
		{At: 200, Fill: motion.Ptr("#0000ff")},
	})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	paths, err := ExportFrames(context.Background(), tl, actor, motion.Options{}, Options{Width: 64, Height: 64}, dir, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Errorf("%s: %v", p, err)
		}
	}
}

func TestExportFramesCancelled(t *testing.T) {
	actor, _ := motion.NewActor("sq", []string{square})
	tl, _ := motion.BuildTimeline(actor, []motion.Keyframe{{At: 0}, {At: 1000}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExportFrames(ctx, tl, actor, motion.Options{}, Options{}, t.TempDir(), 30); err == nil {
		t.Error("expected cancellation error")
	}
}
