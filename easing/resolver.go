package easing

import (
	"strings"

	"github.com/fogleman/ease"
	tween "github.com/tanema/gween/ease"
)

// Resolver turns curve descriptors into progress functions. A Resolver is
// immutable after construction and safe to share.
type Resolver struct {
	table map[string]Func
}

var defaultResolver = NewResolver(nil)

// Default returns the shared resolver holding only the built-in curves.
func Default() *Resolver {
	return defaultResolver
}

// NewResolver creates a resolver from the built-in curves plus overlay.
// Overlay entries replace built-ins with the same normalized name.
func NewResolver(overlay map[string]Func) *Resolver {
	r := new(Resolver)
	r.table = make(map[string]Func, len(builtins)+len(overlay))
	for name, fn := range builtins {
		r.table[name] = pin(fn)
	}
	for name, fn := range overlay {
		if fn == nil {
			continue
		}
		r.table[normalize(name)] = pin(fn)
	}
	return r
}

// Resolve returns the function for c. Unknown names resolve to linear.
func (r *Resolver) Resolve(c Curve) Func {
	if c.Bezier {
		p := c.Points
		return Bezier(p[0], p[1], p[2], p[3])
	}
	if c.Name == "" {
		return Linear
	}
	if fn, ok := r.table[normalize(c.Name)]; ok {
		return fn
	}
	if parsed := ParseCurve(c.Name); parsed.Bezier {
		return r.Resolve(parsed)
	}
	return Linear
}

// Names lists the curve names known to r in normalized form.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	return names
}

// Linear is the identity curve.
func Linear(t float64) float64 {
	return t
}

func normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "_", "")
}

// pin forces the endpoints so that closed-form approximations which miss
// them by a rounding error still start at 0 and land on 1.
func pin(fn Func) Func {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return fn(t)
	}
}

func fromTween(fn tween.TweenFunc) Func {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

var builtins = buildTable()

func buildTable() map[string]Func {
	t := map[string]Func{
		"linear": Linear,

		"inquad":    ease.InQuad,
		"outquad":   ease.OutQuad,
		"inoutquad": ease.InOutQuad,

		"incubic":    ease.InCubic,
		"outcubic":   ease.OutCubic,
		"inoutcubic": ease.InOutCubic,

		"inquart":    ease.InQuart,
		"outquart":   ease.OutQuart,
		"inoutquart": ease.InOutQuart,

		"inquint":    ease.InQuint,
		"outquint":   ease.OutQuint,
		"inoutquint": ease.InOutQuint,

		"insine":    ease.InSine,
		"outsine":   ease.OutSine,
		"inoutsine": ease.InOutSine,

		"inexpo":    ease.InExpo,
		"outexpo":   ease.OutExpo,
		"inoutexpo": ease.InOutExpo,

		"incirc":    ease.InCirc,
		"outcirc":   ease.OutCirc,
		"inoutcirc": ease.InOutCirc,

		"inelastic":    ease.InElastic,
		"outelastic":   ease.OutElastic,
		"inoutelastic": ease.InOutElastic,

		"inback":    ease.InBack,
		"outback":   ease.OutBack,
		"inoutback": ease.InOutBack,

		"inbounce":    ease.InBounce,
		"outbounce":   ease.OutBounce,
		"inoutbounce": ease.InOutBounce,

		"outinquad":  fromTween(tween.OutInQuad),
		"outincubic": fromTween(tween.OutInCubic),
		"outinquart": fromTween(tween.OutInQuart),
		"outinquint": fromTween(tween.OutInQuint),
		"outinsine":  fromTween(tween.OutInSine),
		"outinexpo":  fromTween(tween.OutInExpo),
		"outincirc":  fromTween(tween.OutInCirc),
	}

	// "easeInQuad" and "inQuad" name the same curve.
	prefixed := make(map[string]Func, len(t))
	for name, fn := range t {
		if name != "linear" {
			prefixed["ease"+name] = fn
		}
	}
	for name, fn := range prefixed {
		t[name] = fn
	}

	// CSS keywords.
	t["ease"] = Bezier(0.25, 0.1, 0.25, 1)
	t["easein"] = Bezier(0.42, 0, 1, 1)
	t["easeout"] = Bezier(0, 0, 0.58, 1)
	t["easeinout"] = Bezier(0.42, 0, 0.58, 1)

	t["spring"] = ease.OutElastic
	t["bounce"] = ease.OutBounce
	return t
}
