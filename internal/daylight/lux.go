package daylight

import (
	"sort"
	"strconv"
	"strings"
)

// LuxEntry maps a CCT setting to the maximum illuminance a fixture can
// produce at that setting.
type LuxEntry struct {
	CCT    int
	MaxLux float64
}

// LuxTable is a sparse per-device calibration table, kept sorted by
// CCT ascending. A nil or empty table interpolates to zero.
type LuxTable []LuxEntry

// NewLuxTable builds a sorted calibration table from a map; callers
// need not order the keys.
func NewLuxTable(entries map[int]float64) LuxTable {
	if len(entries) == 0 {
		return nil
	}
	table := make(LuxTable, 0, len(entries))
	for cct, lux := range entries {
		table = append(table, LuxEntry{CCT: cct, MaxLux: lux})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].CCT < table[j].CCT })
	return table
}

// Interpolate returns the maximum lux for a CCT value by piecewise
// linear interpolation, clamping outside the calibrated range.
func (t LuxTable) Interpolate(cct int) float64 {
	switch {
	case len(t) == 0:
		return 0
	case len(t) == 1:
		return t[0].MaxLux
	case cct <= t[0].CCT:
		return t[0].MaxLux
	case cct >= t[len(t)-1].CCT:
		return t[len(t)-1].MaxLux
	}

	// Find the bracketing pair
	hi := sort.Search(len(t), func(i int) bool { return t[i].CCT >= cct })
	lo := hi - 1

	span := float64(t[hi].CCT - t[lo].CCT)
	frac := float64(cct-t[lo].CCT) / span
	return t[lo].MaxLux + frac*(t[hi].MaxLux-t[lo].MaxLux)
}

// ParseLuxTable parses a "cct:lux,cct:lux,..." calibration string.
// Pairs that do not parse as two positive numbers are discarded; if
// nothing parses the result is nil ("no map"), never an error.
func ParseLuxTable(s string) LuxTable {
	entries := make(map[int]float64)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		cct, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || cct <= 0 {
			continue
		}
		lux, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || lux <= 0 {
			continue
		}
		entries[cct] = lux
	}
	return NewLuxTable(entries)
}
