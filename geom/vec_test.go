package geom

import (
	"math"
	"testing"
)

func TestVec2Basics(t *testing.T) {
	a := Vec2{3, 4}
	if got := a.Len(); math.Abs(got-5) > 1e-9 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := a.Norm().Len(); math.Abs(got-1) > 1e-9 {
		t.Errorf("Norm().Len() = %v, want 1", got)
	}
	if got := (Vec2{}).Norm(); got != (Vec2{}) {
		t.Errorf("zero Norm = %v, want zero vector", got)
	}
}

func TestRotate(t *testing.T) {
	v := Vec2{1, 0}.Rotate(math.Pi / 2)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-1) > 1e-9 {
		t.Errorf("Rotate(pi/2) = %v, want (0,1)", v)
	}
}

func TestPointSegmentDist(t *testing.T) {
	tests := []struct {
		name     string
		p, a, b  Vec2
		wantDist float64
		wantT    float64
	}{
		{"perpendicular foot inside", Vec2{1, 1}, Vec2{0, 0}, Vec2{2, 0}, 1, 0.5},
		{"clamped to start", Vec2{-2, 0}, Vec2{0, 0}, Vec2{2, 0}, 2, 0},
		{"clamped to end", Vec2{5, 0}, Vec2{0, 0}, Vec2{2, 0}, 3, 1},
		{"degenerate segment", Vec2{1, 0}, Vec2{0, 0}, Vec2{0, 0}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, tp := PointSegmentDist(tt.p, tt.a, tt.b)
			if math.Abs(dist-tt.wantDist) > 1e-9 {
				t.Errorf("dist = %v, want %v", dist, tt.wantDist)
			}
			if math.Abs(tp-tt.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", tp, tt.wantT)
			}
		})
	}
}

func TestPointSegmentDist3(t *testing.T) {
	// Vertical post from floor to 2m; ball passes at height 1 offset 0.3.
	dist, closest := PointSegmentDist3(
		Vec3{0.3, 0, 1},
		Vec3{0, 0, 0},
		Vec3{0, 0, 2},
	)
	if math.Abs(dist-0.3) > 1e-9 {
		t.Errorf("dist = %v, want 0.3", dist)
	}
	if math.Abs(closest.Z-1) > 1e-9 {
		t.Errorf("closest.Z = %v, want 1", closest.Z)
	}
}

func TestIsFinite(t *testing.T) {
	if (Vec2{math.NaN(), 0}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if (Vec3{0, math.Inf(1), 0}).IsFinite() {
		t.Error("Inf vector reported finite")
	}
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
}

func TestVec3Cross(t *testing.T) {
	// Spin about -Y crossed with velocity along +X yields lift along +Z.
	spin := Vec3{0, -10, 0}
	vel := Vec3{20, 0, 0}
	c := spin.Cross(vel)
	if math.Abs(c.Z-200) > 1e-9 {
		t.Errorf("cross.Z = %v, want 200", c.Z)
	}
	if c.X != 0 || c.Y != 0 {
		t.Errorf("cross = %v, want only Z component", c)
	}
}
