package sentiment

// Label is a sentiment classification.
type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// classification thresholds on the polarity scale.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Classify maps a polarity score onto a label.
func Classify(score float64) Label {
	switch {
	case score > positiveThreshold:
		return Positive
	case score < negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Analyze classifies free text. Empty text is Neutral.
func Analyze(text string) Label {
	if text == "" {
		return Neutral
	}
	return Classify(Polarity(text))
}
