// Package preview rasterizes a single actor state for static previews.
package preview

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/motiontx/morph"
	"github.com/matt-g-everett/motiontx/motion"
	"github.com/matt-g-everett/motiontx/paint"
)

// Options configure the canvas.
type Options struct {
	Width, Height int
	// Background is a hex color. Empty leaves the canvas transparent.
	Background string
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 256
	}
	if h <= 0 {
		h = 256
	}
	return w, h
}

// Render draws actor in state. The morphed outline replaces the actor's
// own outlines when the state carries one. Transforms pivot on the center
// of the outline bounds; width and height, when set, stretch the outline
// to that size.
func Render(actor motion.Actor, state motion.ActorState, opts Options) (*gg.Context, error) {
	sources := actor.Outlines
	if state.PathOutline != nil {
		sources = []string{*state.PathOutline}
	}
	paths := make([]morph.Path, 0, len(sources))
	for i, src := range sources {
		p, err := morph.ParsePath(src)
		if err != nil {
			return nil, fmt.Errorf("preview: actor %q outline %d: %w", actor.ID, i, err)
		}
		paths = append(paths, p)
	}

	w, h := opts.size()
	dc := gg.NewContext(w, h)
	if opts.Background != "" {
		dc.ClearWithColor(gg.Hex(opts.Background))
	}
	if len(paths) == 0 {
		return dc, nil
	}

	bounds := paths[0].Bounds()
	for _, p := range paths[1:] {
		bounds = bounds.Union(p.Bounds())
	}
	cx := (bounds.Min.X + bounds.Max.X) / 2
	cy := (bounds.Min.Y + bounds.Max.Y) / 2
	sx, sy := state.Scale.X, state.Scale.Y
	if state.Width != nil && bounds.Width() > 0 {
		sx *= *state.Width / bounds.Width()
	}
	if state.Height != nil && bounds.Height() > 0 {
		sy *= *state.Height / bounds.Height()
	}

	dc.PushLayer(gg.BlendNormal, state.Opacity)
	dc.Push()
	dc.Translate(state.Position.X+cx, state.Position.Y+cy)
	dc.Rotate(state.Rotation * math.Pi / 180)
	dc.Scale(sx, sy)
	dc.Translate(-cx, -cy)

	for _, p := range paths {
		trace(dc, p)
	}

	fill := brush(state.Fill, state.FillGradient)
	stroke := brush(state.Stroke, state.StrokeGradient)
	var err error
	if fill != nil {
		dc.SetFillBrush(fill)
		if stroke != nil {
			err = dc.FillPreserve()
		} else {
			err = dc.Fill()
		}
	}
	if err == nil && stroke != nil {
		width := 1.0
		if state.StrokeWidth != nil {
			width = *state.StrokeWidth
		}
		dc.SetLineWidth(width)
		dc.SetStrokeBrush(stroke)
		err = dc.Stroke()
	}
	dc.ClearPath()
	dc.Pop()
	dc.PopLayer()
	if err != nil {
		return nil, fmt.Errorf("preview: actor %q: %w", actor.ID, err)
	}
	return dc, nil
}

func trace(dc *gg.Context, p morph.Path) {
	dc.MoveTo(p.Start.X, p.Start.Y)
	for _, s := range p.Segments {
		dc.CubicTo(s.Ctrl1.X, s.Ctrl1.Y, s.Ctrl2.X, s.Ctrl2.Y, s.End.X, s.End.Y)
	}
	if p.Closed {
		dc.ClosePath()
	}
}

// brush turns a paint value into a gg brush. Unparseable colors and
// unresolved gradient references paint nothing.
func brush(value *string, g *paint.Gradient) gg.Brush {
	if g != nil {
		return gradientBrush(*g)
	}
	if value == nil {
		return nil
	}
	c, ok := rgba(*value, 1)
	if !ok {
		return nil
	}
	return gg.Solid(c)
}

func gradientBrush(g paint.Gradient) gg.Brush {
	switch geom := g.Geometry.(type) {
	case paint.Linear:
		b := gg.NewLinearGradientBrush(geom.X1, geom.Y1, geom.X2, geom.Y2)
		for _, s := range g.Stops {
			if c, ok := rgba(s.Color, s.Alpha()); ok {
				b.AddColorStop(s.Offset, c)
			}
		}
		return b
	case paint.Radial:
		fx, fy := geom.Focus()
		b := gg.NewRadialGradientBrush(geom.CX, geom.CY, 0, geom.R).SetFocus(fx, fy)
		for _, s := range g.Stops {
			if c, ok := rgba(s.Color, s.Alpha()); ok {
				b.AddColorStop(s.Offset, c)
			}
		}
		return b
	}
	return nil
}

func rgba(hex string, alpha float64) (gg.RGBA, bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return gg.RGBA{}, false
	}
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, true
}
