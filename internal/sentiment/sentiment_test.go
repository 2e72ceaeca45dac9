package sentiment_test

import (
	"math/rand"
	"testing"

	"filmtrend/internal/sentiment"
)

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  sentiment.Label
	}{
		{0.5, sentiment.Positive},
		{0.11, sentiment.Positive},
		{0.1, sentiment.Neutral},
		{0, sentiment.Neutral},
		{-0.1, sentiment.Neutral},
		{-0.11, sentiment.Negative},
		{-0.8, sentiment.Negative},
	}
	for _, tt := range tests {
		if got := sentiment.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestPolarity(t *testing.T) {
	if got := sentiment.Polarity("An amazing, brilliant masterpiece."); got <= 0.1 {
		t.Errorf("positive text scored %v", got)
	}
	if got := sentiment.Polarity("Boring, predictable, a waste of time."); got >= -0.1 {
		t.Errorf("negative text scored %v", got)
	}
	if got := sentiment.Polarity("The film runs for two hours."); got != 0 {
		t.Errorf("neutral text scored %v", got)
	}
}

func TestPolarityNegation(t *testing.T) {
	plain := sentiment.Polarity("The film was good.")
	negated := sentiment.Polarity("The film was not good.")
	if negated >= plain {
		t.Errorf("negation should lower polarity: plain=%v negated=%v", plain, negated)
	}
}

func TestAnalyzeEmptyIsNeutral(t *testing.T) {
	if got := sentiment.Analyze(""); got != sentiment.Neutral {
		t.Errorf("Analyze(\"\") = %v", got)
	}
}

func TestGeneratorCountWithinRange(t *testing.T) {
	gen := sentiment.NewGenerator(rand.New(rand.NewSource(1)), 8, 15)
	for i := 0; i < 20; i++ {
		reviews := gen.Generate()
		if len(reviews) < 8 || len(reviews) > 15 {
			t.Fatalf("batch size %d outside [8, 15]", len(reviews))
		}
	}
}

func TestGeneratorReviewsAreConsistent(t *testing.T) {
	gen := sentiment.NewGenerator(rand.New(rand.NewSource(42)), 8, 15)
	for _, review := range gen.Generate() {
		if review.Text == "" {
			t.Error("empty review text")
		}
		if review.Score < -1 || review.Score > 1 {
			t.Errorf("score %v outside [-1, 1]", review.Score)
		}
		if got := sentiment.Classify(review.Score); got != review.Label {
			t.Errorf("label %v inconsistent with score %v", review.Label, review.Score)
		}
		if review.Language != "en" {
			t.Errorf("language = %q", review.Language)
		}
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	a := sentiment.NewGenerator(rand.New(rand.NewSource(7)), 8, 15).Generate()
	b := sentiment.NewGenerator(rand.New(rand.NewSource(7)), 8, 15).Generate()
	if len(a) != len(b) {
		t.Fatalf("batch sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("review %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
