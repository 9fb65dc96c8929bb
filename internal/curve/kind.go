// Package curve implements the daylight curve models that map solar
// geometry to normalized color temperature and intensity factors.
//
// Empirical curves are functions of a day fraction in [0,1] where 0 is
// the end of astronomical night, 0.5 is solar noon and 1 is the start
// of the next night. Physical curves are functions of sun altitude and
// are normalized against the day's maximum altitude so that intensity
// reaches 1.0 at solar noon regardless of season or latitude.
package curve

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported daylight curve models
type Kind string

const (
	Hann              Kind = "hann"
	WiderMiddleSmall  Kind = "wider_middle_small"
	WiderMiddleMedium Kind = "wider_middle_medium"
	WiderMiddleLarge  Kind = "wider_middle_large"
	CIEDaylight       Kind = "cie_daylight"
	SunAltitude       Kind = "sun_altitude"
	PerezDaylight     Kind = "perez_daylight"
	Physics           Kind = "physics"
	Blackbody         Kind = "blackbody"
	Hazy              Kind = "hazy"
)

// AllKinds returns every supported curve kind in stable order
func AllKinds() []Kind {
	return []Kind{
		Hann,
		WiderMiddleSmall,
		WiderMiddleMedium,
		WiderMiddleLarge,
		CIEDaylight,
		SunAltitude,
		PerezDaylight,
		Physics,
		Blackbody,
		Hazy,
	}
}

// String returns the canonical name of the curve kind
func (k Kind) String() string {
	return string(k)
}

// IsEmpirical reports whether the curve is evaluated over a normalized
// day fraction rather than sun altitude
func (k Kind) IsEmpirical() bool {
	switch k {
	case Hann, WiderMiddleSmall, WiderMiddleMedium, WiderMiddleLarge:
		return true
	}
	return false
}

// IsPhysical reports whether the curve is evaluated over sun altitude
func (k Kind) IsPhysical() bool {
	return !k.IsEmpirical()
}

// PhysicsCapable reports whether the curve produces a raw intensity
// suitable for weather adjustment and absolute light output
func (k Kind) PhysicsCapable() bool {
	switch k {
	case Physics, Blackbody, Hazy:
		return true
	}
	return false
}

// ParseKind validates a curve name and returns the matching Kind.
// Unknown names fail with an error listing every valid name; this is
// the only user-input validation the engine owns.
func ParseKind(name string) (Kind, error) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range AllKinds() {
		if candidate == k {
			return k, nil
		}
	}

	valid := make([]string, 0, len(AllKinds()))
	for _, k := range AllKinds() {
		valid = append(valid, k.String())
	}
	return "", fmt.Errorf("unknown curve %q (valid curves: %s)", name, strings.Join(valid, ", "))
}

// ParseKindSet resolves a curve-set specification: "all", a single
// curve name, or a comma-separated list of names. Order is preserved
// and duplicates are collapsed.
func ParseKindSet(spec string) ([]Kind, error) {
	if strings.EqualFold(strings.TrimSpace(spec), "all") {
		return AllKinds(), nil
	}

	seen := make(map[Kind]bool)
	kinds := make([]Kind, 0, 4)
	for _, part := range strings.Split(spec, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}

	if len(kinds) == 0 {
		return nil, fmt.Errorf("empty curve specification %q", spec)
	}
	return kinds, nil
}
