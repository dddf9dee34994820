package engine

import "sort"

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentScore is the classification of a single message.
type SentimentScore struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// DailySentiment is the mean sentiment of one calendar day.
type DailySentiment struct {
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Messages int     `json:"messages"`
}

// SentimentBundle is the Sentiment output group of an AnalysisResult.
type SentimentBundle struct {
	// Distribution maps sender -> label -> message count.
	Distribution map[string]map[string]int `json:"distribution"`
	MeanScores   map[string]float64        `json:"mean_scores"`
	OverallMean  float64                   `json:"overall_mean"`

	// PositiveRatio and NegativeRatio are shares of all messages.
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`

	// Daily is ordered by date ascending.
	Daily []DailySentiment `json:"daily"`

	// AffectionRate is affection lexicon hits per message, per sender.
	AffectionRate        map[string]float64 `json:"affection_rate"`
	OverallAffectionRate float64            `json:"overall_affection_rate"`

	OverallMood string `json:"overall_mood"`
}

// ClassifyMessage scores one message against the configured lexicons. The
// score is the signed lexicon sum divided by the token count (words plus
// emojis), clamped to [-1, 1]. Media and empty messages are neutral with
// score 0. Each call is independent of every other, so callers may classify
// in parallel.
func ClassifyMessage(m Message, cfg Config) SentimentScore {
	if m.IsMedia || m.Text == "" {
		return SentimentScore{Label: SentimentNeutral}
	}

	tokens := Tokenize(m.Text, cfg)
	total := len(tokens) + len(m.Emojis)
	if total == 0 {
		return SentimentScore{Label: SentimentNeutral}
	}

	var sum float64
	for _, w := range tokens {
		sum += cfg.SentimentLexicon[w]
	}
	for _, e := range m.Emojis {
		sum += cfg.EmojiSentiment[e]
	}

	score := clamp(sum/float64(total), -1, 1)
	label := SentimentNeutral
	switch {
	case score > 0:
		label = SentimentPositive
	case score < 0:
		label = SentimentNegative
	}
	return SentimentScore{Score: score, Label: label}
}

// Overall mood thresholds over the positive/negative message ratios.
const (
	moodVeryPositiveRatio = 0.4
	moodPositiveRatio     = 0.25
	moodTenseRatio        = 0.3
)

// ComputeSentiment classifies every message and aggregates per-participant
// distributions, daily means, affection rates, and the overall mood label.
func ComputeSentiment(conv Conversation, cfg Config) SentimentBundle {
	a, b := conv.Participants[0], conv.Participants[1]
	out := SentimentBundle{
		Distribution: map[string]map[string]int{
			a: {SentimentPositive: 0, SentimentNeutral: 0, SentimentNegative: 0},
			b: {SentimentPositive: 0, SentimentNeutral: 0, SentimentNegative: 0},
		},
		MeanScores:    make(map[string]float64, 2),
		AffectionRate: make(map[string]float64, 2),
	}

	type dayTally struct {
		sum      float64
		messages int
	}
	var (
		scoreSums     = map[string]float64{a: 0, b: 0}
		affectionHits = map[string]int{a: 0, b: 0}
		days          = make(map[string]*dayTally)
		totalSum      float64
		positive      int
		negative      int
	)

	for _, m := range conv.Messages {
		s := ClassifyMessage(m, cfg)
		out.Distribution[m.Sender][s.Label]++
		scoreSums[m.Sender] += s.Score
		totalSum += s.Score
		switch s.Label {
		case SentimentPositive:
			positive++
		case SentimentNegative:
			negative++
		}

		day := days[m.Date()]
		if day == nil {
			day = &dayTally{}
			days[m.Date()] = day
		}
		day.sum += s.Score
		day.messages++

		if !m.IsMedia {
			for _, w := range Tokenize(m.Text, cfg) {
				if _, ok := cfg.AffectionWords[w]; ok {
					affectionHits[m.Sender]++
				}
			}
			for _, e := range m.Emojis {
				if _, ok := cfg.AffectionEmojis[e]; ok {
					affectionHits[m.Sender]++
				}
			}
		}
	}

	total := len(conv.Messages)
	for _, sender := range []string{a, b} {
		if n := countOf(out.Distribution[sender]); n > 0 {
			out.MeanScores[sender] = scoreSums[sender] / float64(n)
			out.AffectionRate[sender] = float64(affectionHits[sender]) / float64(n)
		}
	}
	out.OverallMean = totalSum / float64(total)
	out.PositiveRatio = float64(positive) / float64(total)
	out.NegativeRatio = float64(negative) / float64(total)
	out.OverallAffectionRate = float64(affectionHits[a]+affectionHits[b]) / float64(total)
	out.OverallMood = moodLabel(out.PositiveRatio, out.NegativeRatio)

	out.Daily = make([]DailySentiment, 0, len(days))
	for date, tally := range days {
		out.Daily = append(out.Daily, DailySentiment{
			Date:     date,
			Score:    tally.sum / float64(tally.messages),
			Messages: tally.messages,
		})
	}
	sort.Slice(out.Daily, func(i, j int) bool { return out.Daily[i].Date < out.Daily[j].Date })

	return out
}

func moodLabel(positiveRatio, negativeRatio float64) string {
	switch {
	case positiveRatio >= moodVeryPositiveRatio && positiveRatio > negativeRatio:
		return "very positive"
	case positiveRatio >= moodPositiveRatio && positiveRatio > negativeRatio:
		return "positive"
	case negativeRatio >= moodTenseRatio && negativeRatio > positiveRatio:
		return "tense"
	default:
		return "balanced"
	}
}

func countOf(dist map[string]int) int {
	n := 0
	for _, c := range dist {
		n += c
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
