package sentiment

import (
	"regexp"
	"strings"
)

// lexicon maps sentiment-bearing words to polarity weights in [-1, 1].
var lexicon = map[string]float64{
	"amazing":        0.8,
	"masterpiece":    0.9,
	"outstanding":    0.9,
	"brilliant":      0.9,
	"best":           0.8,
	"loved":          0.7,
	"love":           0.6,
	"stunning":       0.8,
	"beautiful":      0.7,
	"beautifully":    0.7,
	"captivating":    0.7,
	"powerful":       0.6,
	"emotional":      0.4,
	"resonant":       0.5,
	"exceptional":    0.8,
	"fantastic":      0.8,
	"impressive":     0.7,
	"groundbreaking": 0.7,
	"unforgettable":  0.7,
	"enjoyable":      0.5,
	"great":          0.6,
	"fun":            0.4,
	"good":           0.5,
	"solid":          0.3,
	"recommend":      0.5,
	"worth":          0.3,
	"competently":    0.2,

	"mediocre":      -0.4,
	"uneven":        -0.3,
	"lacking":       -0.4,
	"long":          -0.1,
	"special":       0.4,
	"overrated":     -0.6,
	"disappointing": -0.7,
	"confusing":     -0.5,
	"poor":          -0.6,
	"weak":          -0.5,
	"waste":         -0.8,
	"uninteresting": -0.6,
	"boring":        -0.7,
	"predictable":   -0.4,
	"rushed":        -0.3,
	"unnatural":     -0.4,
	"hype":          -0.2,
	"bad":           -0.6,
	"worst":         -0.9,
	"terrible":      -0.8,
	"awful":         -0.8,
}

// negators flip the polarity of the word that follows them.
var negators = map[string]bool{
	"not":    true,
	"never":  true,
	"no":     true,
	"didnt":  true,
	"wasnt":  true,
	"isnt":   true,
	"dont":   true,
	"cant":   true,
	"wont":   true,
	"hardly": true,
}

var wordPattern = regexp.MustCompile(`[a-z]+`)

// Polarity scores text in [-1, 1] as the mean polarity of sentiment-bearing
// words, with single-word negation flipping the following word. Text with no
// matched words scores zero.
func Polarity(text string) float64 {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	var sum float64
	var matched int
	negate := false
	for _, word := range words {
		if negators[word] {
			negate = true
			continue
		}
		if weight, ok := lexicon[word]; ok {
			if negate {
				weight = -weight
			}
			sum += weight
			matched++
		}
		negate = false
	}

	if matched == 0 {
		return 0
	}
	return sum / float64(matched)
}
