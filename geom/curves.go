package geom

import "math"

// BenchmarkSkill is the neutral midpoint of the 0-100 attribute scale.
// Shaping functions center on it so an average player yields a 1.0 modifier.
const BenchmarkSkill = 50.0

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to the unit interval. Probabilities pass through here
// before any random draw.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// Sigmoid is the logistic function 1/(1+e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// SkillSigmoid maps a 0-100 attribute onto (0, 1) with an S-curve centered
// on BenchmarkSkill. steepness controls how sharply skill differences tell;
// a steepness of 0.1 puts skill 80 near 0.95 and skill 20 near 0.05.
// Out-of-range attributes are treated as the neutral benchmark.
func SkillSigmoid(attr, steepness float64) float64 {
	attr = SaneAttr(attr)
	return Sigmoid((attr - BenchmarkSkill) * steepness)
}

// PowerCurve raises a normalized [0, 1] input to the given exponent.
// Exponents below 1 are gentle (reward low values), above 1 harsh.
func PowerCurve(t, exponent float64) float64 {
	return math.Pow(Clamp01(t), exponent)
}

// Attr01 normalizes a 0-100 attribute to [0, 1], substituting the neutral
// benchmark for out-of-range values.
func Attr01(attr float64) float64 {
	return SaneAttr(attr) / 100.0
}

// SaneAttr replaces attribute values outside [0, 100], or non-finite ones,
// with the neutral benchmark.
func SaneAttr(attr float64) float64 {
	if math.IsNaN(attr) || attr < 0 || attr > 100 {
		return BenchmarkSkill
	}
	return attr
}

// NormalizeAngle wraps an angle to [-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
