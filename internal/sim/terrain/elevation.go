package terrain

import (
	"math"

	"github.com/vovakirdan/tui-avalanche/internal/core"
)

// HeightSource supplies a base elevation before the gradient and biases.
type HeightSource func(x, z float64) float64

// FieldParams tunes the procedural elevation field.
type FieldParams struct {
	WorldHeight    float64 // Z extent; elevation rises toward z = 0
	GlobalGradient float64 // Elevation gained per unit of northward travel
	SampleDistance float64 // Central-difference half-width
	MaxGrade       float64 // Upper clamp for Grade
	Bias           map[Category]float64
	Base           HeightSource
}

// DefaultFieldParams returns the tuning used by the built-in scenarios.
func DefaultFieldParams(worldHeight float64) FieldParams {
	return FieldParams{
		WorldHeight:    worldHeight,
		GlobalGradient: 0.05,
		SampleDistance: 18,
		MaxGrade:       0.35,
		Bias: map[Category]float64{
			OpenSnow:  0,
			Powder:    3,
			Trees:     1.5,
			RidgeRock: 12,
			Gully:     -10,
		},
	}
}

// Field is a closed-form elevation function sampled by finite differences.
type Field struct {
	classifier *Classifier
	params     FieldParams
	bias       [Gully + 1]float64
}

// downhillFallback is returned where the surface is flat: due south.
var downhillFallback = core.V(0, 1)

// NewField builds an elevation field over the classifier's zones.
func NewField(classifier *Classifier, params FieldParams) *Field {
	if params.SampleDistance <= 0 {
		params.SampleDistance = 1
	}
	f := &Field{classifier: classifier, params: params}
	for cat, b := range params.Bias {
		if int(cat) >= 0 && int(cat) < len(f.bias) {
			f.bias[cat] = b
		}
	}
	return f
}

// Classifier returns the classifier the field reads biases from.
func (f *Field) Classifier() *Classifier {
	return f.classifier
}

// Elevation returns the surface height at (x, z).
func (f *Field) Elevation(x, z float64) float64 {
	h := f.params.GlobalGradient * (f.params.WorldHeight - z)
	if f.params.Base != nil {
		h += f.params.Base(x, z)
	}
	if cat := f.classifier.Classify(x, z); int(cat) < len(f.bias) {
		h += f.bias[cat]
	}
	return h
}

func (f *Field) gradient(x, z float64) (gx, gz float64) {
	s := f.params.SampleDistance
	hl := f.Elevation(x-s, z)
	hr := f.Elevation(x+s, z)
	hu := f.Elevation(x, z-s)
	hd := f.Elevation(x, z+s)
	return (hr - hl) / (2 * s), (hd - hu) / (2 * s)
}

// Downhill returns the unit direction of steepest descent at (x, z).
func (f *Field) Downhill(x, z float64) core.Vec2 {
	gx, gz := f.gradient(x, z)
	d := core.V(-gx, -gz)
	if d.LenSq() < 1e-4 {
		return downhillFallback
	}
	return d.Normalize()
}

// Grade returns the gradient magnitude at (x, z), clamped to MaxGrade.
func (f *Field) Grade(x, z float64) float64 {
	gx, gz := f.gradient(x, z)
	return math.Min(f.params.MaxGrade, math.Hypot(gx, gz))
}

// AspectLight returns how directly the slope at (x, z) faces away from
// light, in [-1, 1]. Renderers use it for hill shading.
func (f *Field) AspectLight(x, z float64, light core.Vec2) float64 {
	l := light.Normalize()
	if l.LenSq() == 0 {
		return 0
	}
	return core.ClampF(f.Downhill(x, z).Dot(l), -1, 1)
}

// ContourPhase returns the fractional position of (x, z) between contour
// lines spaced spacing elevation units apart.
func (f *Field) ContourPhase(x, z, spacing float64) float64 {
	if spacing <= 0 {
		return 0
	}
	p := math.Mod(f.Elevation(x, z)/spacing, 1)
	if p < 0 {
		p++
	}
	if p >= 1 {
		p = 0
	}
	return p
}
