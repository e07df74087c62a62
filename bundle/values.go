package bundle

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matt-g-everett/motiontx/easing"
	"github.com/matt-g-everett/motiontx/motion"
)

// scaleValue accepts a number or an {x, y} mapping.
type scaleValue motion.Scale

func (s *scaleValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = scaleValue(motion.UniformScale(v))
		return nil
	case yaml.MappingNode:
		var p motion.Point
		if err := node.Decode(&p); err != nil {
			return err
		}
		*s = scaleValue{X: p.X, Y: p.Y}
		return nil
	}
	return fmt.Errorf("line %d: scale must be a number or {x, y}", node.Line)
}

// curveValue accepts a curve name, a cubic-bezier(...) string or a list of
// four control values.
type curveValue easing.Curve

func (c *curveValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = curveValue(easing.ParseCurve(node.Value))
		return nil
	case yaml.SequenceNode:
		var pts []float64
		if err := node.Decode(&pts); err != nil {
			return err
		}
		if len(pts) != 4 {
			return fmt.Errorf("line %d: bezier curve needs 4 values, got %d", node.Line, len(pts))
		}
		*c = curveValue(easing.CubicBezier(pts[0], pts[1], pts[2], pts[3]))
		return nil
	}
	return fmt.Errorf("line %d: curve must be a name or [x1, y1, x2, y2]", node.Line)
}

// count accepts a number or "Infinity".
type count float64

func (n *count) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		switch strings.ToLower(node.Value) {
		case "infinity", "infinite", "inf":
			*n = count(math.Inf(1))
			return nil
		}
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("line %d: iterations must be a number or Infinity", node.Line)
	}
	*n = count(v)
	return nil
}

func parseStrokeAlign(s string) (motion.StrokeAlign, error) {
	switch a := motion.StrokeAlign(s); a {
	case motion.StrokeInside, motion.StrokeCenter, motion.StrokeOutside:
		return a, nil
	}
	return "", fmt.Errorf("unknown stroke alignment %q", s)
}
