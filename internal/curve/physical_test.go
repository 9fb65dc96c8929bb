package curve

import (
	"math"
	"testing"
)

func physicalKinds() []Kind {
	kinds := make([]Kind, 0, 6)
	for _, k := range AllKinds() {
		if k.IsPhysical() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func TestEvaluatePhysical_NoonIntensityIsOne(t *testing.T) {
	// Evaluating at the day's own maximum altitude must normalize the
	// intensity factor to exactly 1, regardless of season or latitude.
	for _, k := range physicalKinds() {
		for _, maxDeg := range []float64{5, 23, 53, 78} {
			maxRad := degToRad(maxDeg)
			f := EvaluatePhysical(k, maxRad, maxRad)
			if math.Abs(f.Intensity-1) > 1e-12 {
				t.Errorf("%s: intensity at max altitude %.0f° = %f, want 1", k, maxDeg, f.Intensity)
			}
		}
	}
}

func TestEvaluatePhysical_PolarNight(t *testing.T) {
	// A day whose maximum altitude stays in deep twilight never
	// normalizes; intensity must be 0, not a division blow-up.
	maxRad := degToRad(-12)
	for _, k := range physicalKinds() {
		f := EvaluatePhysical(k, degToRad(-15), maxRad)
		if f.Intensity != 0 {
			t.Errorf("%s: expected 0 intensity in polar night, got %f", k, f.Intensity)
		}
	}
}

func TestEvaluatePhysical_NaNAltitude(t *testing.T) {
	f := EvaluatePhysical(Physics, math.NaN(), degToRad(40))
	if f != (Factors{}) {
		t.Errorf("Expected zero factors for NaN altitude, got %+v", f)
	}
	f = EvaluatePhysical(Physics, degToRad(10), math.NaN())
	if f != (Factors{}) {
		t.Errorf("Expected zero factors for NaN max altitude, got %+v", f)
	}
}

func TestCCTModels_ZeroBelowCivilTwilight(t *testing.T) {
	for _, k := range physicalKinds() {
		for _, altDeg := range []float64{-30, -10, -6.001} {
			f := EvaluatePhysical(k, degToRad(altDeg), degToRad(50))
			if f.CCT != 0 {
				t.Errorf("%s: CCT factor %f at %.1f°, want 0", k, f.CCT, altDeg)
			}
		}
	}
}

func TestCCTModels_MonotonicNonDecreasing(t *testing.T) {
	for _, k := range physicalKinds() {
		prev := -1.0
		for altDeg := -10.0; altDeg <= 90; altDeg += 0.25 {
			v := cctModel(k).at(altDeg)
			if v < prev-1e-9 {
				t.Errorf("%s: CCT factor decreased from %f to %f at %.2f°", k, prev, v, altDeg)
			}
			if v < 0 || v > 1 {
				t.Errorf("%s: CCT factor %f out of [0,1] at %.2f°", k, v, altDeg)
			}
			prev = v
		}
	}
}

func TestSunAltitudeCCT_Anchors(t *testing.T) {
	cases := []struct {
		altDeg float64
		want   float64
	}{
		{-6, 0},
		{0, 0.30},
		{20, 0.30 + 0.70*math.Sin((20.0/40.0)*(math.Pi/2))},
		{40, 1},
		{70, 1},
	}
	for _, c := range cases {
		got := sunAltitudeCCT.at(c.altDeg)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("sun_altitude at %.0f° = %f, want %f", c.altDeg, got, c.want)
		}
	}
}

func TestCIEDaylightCCT_Anchors(t *testing.T) {
	cases := []struct {
		altDeg float64
		want   float64
	}{
		{-6, 0},
		{-3, 0.125},
		{0, 0.25},
		{15, 0.575},
		{30, 0.90},
		{45, 0.95},
		{60, 1},
	}
	for _, c := range cases {
		got := cieDaylightCCT.at(c.altDeg)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("cie_daylight at %.0f° = %f, want %f", c.altDeg, got, c.want)
		}
	}
}

func TestExponentialCCT_DecayConstants(t *testing.T) {
	// 1 - e^(-k(alt+6)) with the per-model decay constant
	cases := []struct {
		kind Kind
		k    float64
	}{
		{Physics, 0.05},
		{Blackbody, 0.08},
		{Hazy, 0.03},
	}
	for _, c := range cases {
		for _, altDeg := range []float64{-5, 0, 15, 45} {
			want := 1 - math.Exp(-c.k*(altDeg+6))
			got := cctModel(c.kind).at(altDeg)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("%s at %.0f° = %f, want %f", c.kind, altDeg, got, want)
			}
		}
	}
}

func TestAirmass_KastenYoung(t *testing.T) {
	// Near unity with the sun overhead
	if m := Airmass(90); math.Abs(m-1) > 0.01 {
		t.Errorf("Airmass at zenith = %f, want ~1", m)
	}

	// Monotonically increasing toward the horizon
	prev := Airmass(90)
	for altDeg := 85.0; altDeg >= 0; altDeg -= 5 {
		m := Airmass(altDeg)
		if m <= prev {
			t.Errorf("Airmass not increasing toward horizon: %f at %.0f° after %f", m, altDeg, prev)
		}
		prev = m
	}

	// Clamped below -0.5° so deep twilight stays finite
	if m1, m2 := Airmass(-0.5), Airmass(-20); m1 != m2 {
		t.Errorf("Expected clamped airmass below -0.5°: %f vs %f", m1, m2)
	}
}

func TestTwilightGlow_Shape(t *testing.T) {
	if g := twilightGlow(-6); g != 0 {
		t.Errorf("Expected 0 glow at civil twilight, got %f", g)
	}
	if g := twilightGlow(-3); math.Abs(g-0.20*0.25) > 1e-12 {
		t.Errorf("Expected quadratic glow 0.05 at -3°, got %f", g)
	}
	if g := twilightGlow(0); math.Abs(g-0.20) > 1e-12 {
		t.Errorf("Expected 0.20 glow at horizon, got %f", g)
	}
	if g := twilightGlow(50); math.Abs(g-0.30) > 1e-12 {
		t.Errorf("Expected 0.30 glow at 50°, got %f", g)
	}
}

func TestRawBeerLambert_ContinuousAtHorizon(t *testing.T) {
	// Direct + glow must not jump at the horizon crossing
	below := rawBeerLambert(tauPhysics, -0.001)
	above := rawBeerLambert(tauPhysics, 0.001)
	if math.Abs(above-below) > 0.01 {
		t.Errorf("Raw intensity discontinuous at horizon: %f vs %f", below, above)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds() {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", k, err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q) = %q", k, parsed)
		}
	}

	// Case and whitespace tolerant
	if k, err := ParseKind("  PHYSICS "); err != nil || k != Physics {
		t.Errorf("Expected physics, got %q, %v", k, err)
	}

	if _, err := ParseKind("parabola"); err == nil {
		t.Error("Expected error for unknown curve name")
	}
}

func TestParseKindSet(t *testing.T) {
	kinds, err := ParseKindSet("all")
	if err != nil {
		t.Fatalf("ParseKindSet(all) failed: %v", err)
	}
	if len(kinds) != len(AllKinds()) {
		t.Errorf("Expected %d kinds, got %d", len(AllKinds()), len(kinds))
	}

	kinds, err = ParseKindSet("physics, hann, physics")
	if err != nil {
		t.Fatalf("ParseKindSet failed: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != Physics || kinds[1] != Hann {
		t.Errorf("Expected [physics hann], got %v", kinds)
	}

	if _, err := ParseKindSet(" , "); err == nil {
		t.Error("Expected error for empty specification")
	}
	if _, err := ParseKindSet("physics,bogus"); err == nil {
		t.Error("Expected error for unknown name in list")
	}
}
