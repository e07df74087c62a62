package paint

import "encoding/json"

type jsonStop struct {
	Offset  float64  `json:"offset"`
	Color   string   `json:"color"`
	Opacity *float64 `json:"opacity,omitempty"`
}

type jsonGradient struct {
	ID    string     `json:"id"`
	Type  string     `json:"type"`
	X1    *float64   `json:"x1,omitempty"`
	Y1    *float64   `json:"y1,omitempty"`
	X2    *float64   `json:"x2,omitempty"`
	Y2    *float64   `json:"y2,omitempty"`
	CX    *float64   `json:"cx,omitempty"`
	CY    *float64   `json:"cy,omitempty"`
	R     *float64   `json:"r,omitempty"`
	FX    *float64   `json:"fx,omitempty"`
	FY    *float64   `json:"fy,omitempty"`
	Stops []jsonStop `json:"stops"`
}

// MarshalJSON writes the gradient in the flat tagged form used by bundles.
func (g Gradient) MarshalJSON() ([]byte, error) {
	out := jsonGradient{ID: g.ID, Stops: make([]jsonStop, len(g.Stops))}
	for i, s := range g.Stops {
		out.Stops[i] = jsonStop{Offset: s.Offset, Color: s.Color, Opacity: s.Opacity}
	}

	switch geo := g.Geometry.(type) {
	case Linear:
		out.Type = "linear"
		out.X1, out.Y1, out.X2, out.Y2 = &geo.X1, &geo.Y1, &geo.X2, &geo.Y2
	case Radial:
		out.Type = "radial"
		out.CX, out.CY, out.R = &geo.CX, &geo.CY, &geo.R
		out.FX, out.FY = geo.FX, geo.FY
	case nil:
		out.Type = "none"
	}
	return json.Marshal(out)
}
