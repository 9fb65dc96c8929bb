package daylight

import (
	"math"

	"github.com/saaga0h/lumen-platform/internal/curve"
)

// Precipitation kinds recognized by the weather modifier
const (
	PrecipitationNone  = ""
	PrecipitationRain  = "rain"
	PrecipitationSnow  = "snow"
	PrecipitationSleet = "sleet"
)

// Weather describes current sky conditions. A nil *Weather means a
// clear sky, equivalent to zero cloud cover.
type Weather struct {
	CloudCover    float64 // 0 = clear, 1 = full overcast
	Precipitation string
}

// cloudAttenuation is the fraction of intensity removed at full
// overcast. Full cloud cover keeps 30% of the clear-sky output.
const cloudAttenuation = 0.70

// precipitationFactor returns the extra attenuation applied on top of
// cloud cover when precipitation is falling.
func precipitationFactor(kind string) float64 {
	switch kind {
	case PrecipitationRain:
		return 0.85
	case PrecipitationSleet:
		return 0.88
	case PrecipitationSnow:
		return 0.92
	default:
		return 1.0
	}
}

// Apply adjusts raw physical-curve factors for sky conditions. Cloud
// cover blends the CCT factor toward 1.0, the uniform diffuse-sky
// temperature, because direct-beam color variation disappears under
// overcast. Intensity and raw output attenuate monotonically with
// cover, so the result at cover 0.5 always lies strictly between the
// clear and overcast extremes.
func (w *Weather) Apply(f curve.Factors) curve.Factors {
	if w == nil {
		return f
	}

	cover := w.CloudCover
	if math.IsNaN(cover) || cover < 0 {
		cover = 0
	}
	if cover > 1 {
		cover = 1
	}

	att := (1 - cloudAttenuation*cover) * precipitationFactor(w.Precipitation)

	return curve.Factors{
		CCT:       f.CCT + (1-f.CCT)*cover,
		Intensity: f.Intensity * att,
		Raw:       f.Raw * att,
	}
}
