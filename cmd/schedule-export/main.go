// Command schedule-export computes a full-day circadian lighting
// schedule for a location and writes it as JSON to stdout. It is meant
// for inspection and for seeding external schedulers; the agent builds
// the same schedules internally.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/saaga0h/lumen-platform/internal/daylight"
	"github.com/saaga0h/lumen-platform/internal/ephemeris"
)

func main() {
	var (
		latitude  = pflag.Float64("latitude", 60.1699, "Location latitude in degrees")
		longitude = pflag.Float64("longitude", 24.9384, "Location longitude in degrees")
		date      = pflag.String("date", "", "Date to compute (YYYY-MM-DD, default today)")
		curves    = pflag.String("curves", "physics", "Curve selection: 'all', one name, or a comma list")
		interval  = pflag.Int("interval", daylight.DefaultIntervalMinutes, "Grid interval in minutes")
		instants  = pflag.Bool("instants", true, "Include daylight instants as schedule points")
		cctMin    = pflag.Int("cct-min", daylight.DefaultCCTMinK, "Minimum color temperature in Kelvin")
		cctMax    = pflag.Int("cct-max", daylight.DefaultCCTMaxK, "Maximum color temperature in Kelvin")
		intMin    = pflag.Float64("intensity-min", daylight.DefaultIntensityMinPct, "Minimum intensity in percent")
		intMax    = pflag.Float64("intensity-max", daylight.DefaultIntensityMaxPct, "Maximum intensity in percent")
		cloud     = pflag.Float64("cloud-cover", -1, "Cloud cover 0..1 (negative: clear sky)")
		precip    = pflag.String("precipitation", "none", "Precipitation: none, rain, sleet or snow")
		pretty    = pflag.Bool("pretty", true, "Indent the JSON output")
	)
	pflag.Parse()

	day := time.Now()
	if *date != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, *date, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid date %q: %v\n", *date, err)
			os.Exit(1)
		}
		day = parsed
	}

	req := daylight.ScheduleRequest{
		Latitude:        *latitude,
		Longitude:       *longitude,
		Date:            day,
		Curves:          *curves,
		IntervalMinutes: *interval,
		IncludeInstants: *instants,
		Bounds: daylight.Bounds{
			CCTMinK:         *cctMin,
			CCTMaxK:         *cctMax,
			IntensityMinPct: *intMin,
			IntensityMaxPct: *intMax,
		},
	}
	if *cloud >= 0 {
		req.Weather = &daylight.Weather{
			CloudCover:    *cloud,
			Precipitation: *precip,
		}
	}

	schedule, err := daylight.GenerateSchedule(ephemeris.NewProvider(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schedule generation failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(schedule); err != nil {
		fmt.Fprintf(os.Stderr, "encoding failed: %v\n", err)
		os.Exit(1)
	}
}
