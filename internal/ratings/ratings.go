package ratings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical source names as stored in the ratings table.
const (
	SourceIMDB           = "IMDb"
	SourceTMDB           = "TMDb"
	SourceRottenTomatoes = "Rotten Tomatoes"
	SourceMetacritic     = "Metacritic"
)

// Normalize converts a raw rating string from the given source onto a 0-100
// scale. IMDb and TMDb report 0-10 and are multiplied by ten; Rotten
// Tomatoes and Metacritic values are used as-is after stripping the "%" or
// "/100" suffix.
func Normalize(source, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty rating for source %q", source)
	}

	switch source {
	case SourceIMDB, SourceTMDB:
		raw = strings.TrimSuffix(raw, "/10")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %s rating %q: %w", source, raw, err)
		}
		return value * 10, nil
	case SourceRottenTomatoes, SourceMetacritic:
		raw = strings.TrimSuffix(raw, "%")
		raw = strings.TrimSuffix(raw, "/100")
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, fmt.Errorf("parse %s rating %q: %w", source, raw, err)
		}
		return value, nil
	default:
		return 0, fmt.Errorf("unknown rating source %q", source)
	}
}

// NormalizeScore converts an already-numeric 0-10 score onto the 0-100 scale.
func NormalizeScore(value float64) float64 {
	return value * 10
}

// Aggregate returns the mean of the supplied normalized scores rounded to
// two decimals. The second return is false when no scores are present.
func Aggregate(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	var sum float64
	for _, score := range scores {
		sum += score
	}
	mean := sum / float64(len(scores))
	return math.Round(mean*100) / 100, true
}
