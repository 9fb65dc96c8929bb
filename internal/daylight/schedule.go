package daylight

import (
	"fmt"
	"sort"
	"time"

	"github.com/saaga0h/lumen-platform/internal/curve"
	"github.com/saaga0h/lumen-platform/internal/ephemeris"
)

// Schedule generation constants
const (
	// DefaultIntervalMinutes is the grid spacing used when the request
	// supplies none
	DefaultIntervalMinutes = 30

	// dedupTolerance collapses a grid point and a special instant that
	// nearly coincide into a single schedule row
	dedupTolerance = 30 * time.Second
)

// ScheduleRequest describes one schedule generation call
type ScheduleRequest struct {
	Latitude        float64
	Longitude       float64
	Date            time.Time
	Curves          string // "all", one name, or a comma list
	IntervalMinutes int
	Start           time.Time // zero: derive from daylight instants
	End             time.Time // zero: derive from daylight instants
	IncludeInstants bool
	Bounds          Bounds
	Weather         *Weather
}

// SchedulePoint is one evaluated timestamp of a schedule. Values holds
// one result per requested curve. Special marks points produced by (or
// coinciding with) a named daylight instant.
type SchedulePoint struct {
	Time    time.Time             `json:"time"`
	Values  map[curve.Kind]Result `json:"values"`
	Special bool                  `json:"special,omitempty"`
	Event   string                `json:"event,omitempty"`
}

// Schedule is a time-ordered sequence of lighting targets for one date
// and location. It is built atomically and never mutated afterwards.
type Schedule struct {
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Date      time.Time          `json:"date"`
	Instants  ephemeris.Instants `json:"instants"`
	Curves    []curve.Kind       `json:"curves"`
	Points    []SchedulePoint    `json:"points"`
}

// GenerateSchedule evaluates the calculator across a time domain: a
// regular interval grid, optionally unioned with the date's daylight
// instants. Points are strictly time-ascending with no two points
// closer than the dedup tolerance, and identical requests always
// produce identical schedules.
func GenerateSchedule(src Source, req ScheduleRequest) (*Schedule, error) {
	kinds, err := curve.ParseKindSet(req.Curves)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(req.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = DefaultIntervalMinutes * time.Minute
	}

	date := req.Date
	if date.IsZero() {
		return nil, fmt.Errorf("schedule request needs a date")
	}

	instants := src.Instants(date, req.Latitude, req.Longitude)
	named := instants.Named()

	start, end, err := generationWindow(req, named, interval)
	if err != nil {
		return nil, err
	}

	// Regular grid over the window
	stamps := make([]time.Time, 0, int(end.Sub(start)/interval)+len(named)+1)
	for ts := start; !ts.After(end); ts = ts.Add(interval) {
		stamps = append(stamps, ts)
	}

	// Union in the special instants that fall inside the window
	if req.IncludeInstants {
		for _, ni := range named {
			if !ni.Time.Before(start) && !ni.Time.After(end) {
				stamps = append(stamps, ni.Time)
			}
		}
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	stamps = dedupe(stamps)

	points := make([]SchedulePoint, 0, len(stamps))
	for _, ts := range stamps {
		values := make(map[curve.Kind]Result, len(kinds))
		for _, k := range kinds {
			values[k] = Calculate(src, req.Latitude, req.Longitude, ts, req.Bounds, k, req.Weather)
		}

		point := SchedulePoint{Time: ts, Values: values}
		if name, ok := matchInstant(ts, named); ok {
			point.Special = true
			point.Event = name
		}
		points = append(points, point)
	}

	return &Schedule{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Date:      date,
		Instants:  instants,
		Curves:    kinds,
		Points:    points,
	}, nil
}

// generationWindow resolves the schedule's time span: the supplied
// start/end verbatim, or the extremes of the valid daylight instants
// expanded by one interval width on each side.
func generationWindow(req ScheduleRequest, named []ephemeris.NamedInstant, interval time.Duration) (time.Time, time.Time, error) {
	if !req.Start.IsZero() && !req.End.IsZero() {
		if req.End.Before(req.Start) {
			return req.End, req.Start, nil
		}
		return req.Start, req.End, nil
	}

	if len(named) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("no daylight instants available to derive a window; supply start and end explicitly")
	}

	earliest := named[0].Time
	latest := named[0].Time
	for _, ni := range named[1:] {
		if ni.Time.Before(earliest) {
			earliest = ni.Time
		}
		if ni.Time.After(latest) {
			latest = ni.Time
		}
	}

	return earliest.Add(-interval), latest.Add(interval), nil
}

// dedupe collapses timestamps within the dedup tolerance of the
// previously retained one, keeping the earlier timestamp. Input must
// be sorted ascending.
func dedupe(stamps []time.Time) []time.Time {
	if len(stamps) == 0 {
		return stamps
	}
	out := stamps[:1]
	for _, ts := range stamps[1:] {
		if ts.Sub(out[len(out)-1]) < dedupTolerance {
			continue
		}
		out = append(out, ts)
	}
	return out
}

// matchInstant returns the name of the first daylight instant within
// the dedup tolerance of ts, if any.
func matchInstant(ts time.Time, named []ephemeris.NamedInstant) (string, bool) {
	for _, ni := range named {
		diff := ts.Sub(ni.Time)
		if diff < 0 {
			diff = -diff
		}
		if diff < dedupTolerance {
			return ni.Name, true
		}
	}
	return "", false
}
