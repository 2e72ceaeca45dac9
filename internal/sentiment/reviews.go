package sentiment

import (
	"math"
	"math/rand"
)

// reviewTemplates span the positive, neutral, and negative registers so a
// generated batch covers all three labels.
var reviewTemplates = []string{
	"Amazing cinematography and story! Absolutely loved it.",
	"Masterpiece, truly emotional and powerful.",
	"Outstanding performance by the entire cast.",
	"One of the best films I've seen this year.",
	"Brilliant direction and captivating plot.",
	"Visual masterpiece with stunning effects.",
	"Emotionally resonant and beautifully crafted.",

	"Mediocre plot but great acting overall.",
	"Fun to watch but a bit too long in some parts.",
	"Enjoyable but nothing particularly special.",
	"Solid film with both strengths and weaknesses.",
	"The pacing felt uneven in several parts.",
	"Competently made but lacking originality.",
	"Worth watching once but probably not again.",

	"Overrated, didn't enjoy it much at all.",
	"Disappointing compared to all the hype.",
	"The plot was confusing and hard to follow.",
	"Poor character development and weak storyline.",
	"Not my personal taste and poorly executed.",
	"A waste of time with uninteresting characters.",
	"Boring and predictable throughout most scenes.",
}

// reviewVariations are appended to roughly half of the reviews. The empty
// variation keeps some reviews as the bare template.
var reviewVariations = []string{
	" The soundtrack was also fantastic.",
	" However, the ending felt rushed.",
	" The cinematography was particularly impressive.",
	" Some scenes could have been edited better.",
	" The character development was exceptional.",
	" I would definitely recommend this film.",
	" Not what I expected but still enjoyable.",
	" The visual effects were groundbreaking.",
	" The dialogue felt unnatural at times.",
	" A truly unforgettable experience.",
	"",
}

// Review is one generated review with its scored classification.
type Review struct {
	Text     string
	Score    float64
	Label    Label
	Language string
}

// Generator produces synthetic review batches for movies that have no real
// review feed attached.
type Generator struct {
	rng *rand.Rand
	min int
	max int
}

// NewGenerator creates a Generator producing between min and max reviews per
// movie. A nil rng falls back to an unseeded source.
func NewGenerator(rng *rand.Rand, min, max int) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = min
	}
	return &Generator{rng: rng, min: min, max: max}
}

// Generate returns a batch of reviews. Each review's polarity gets a small
// random perturbation before classification so identical templates do not
// always land on the same label boundary.
func (g *Generator) Generate() []Review {
	count := g.min + g.rng.Intn(g.max-g.min+1)
	reviews := make([]Review, 0, count)
	for i := 0; i < count; i++ {
		text := reviewTemplates[g.rng.Intn(len(reviewTemplates))]
		if g.rng.Float64() > 0.5 {
			text += reviewVariations[g.rng.Intn(len(reviewVariations))]
		}

		score := Polarity(text) + (g.rng.Float64()*0.2 - 0.1)
		score = math.Max(-1, math.Min(1, score))
		score = math.Round(score*1000) / 1000

		reviews = append(reviews, Review{
			Text:     text,
			Score:    score,
			Label:    Classify(score),
			Language: "en",
		})
	}
	return reviews
}
