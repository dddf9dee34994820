package engine

import (
	"math"
	"sort"
)

// Mood trend labels over the daily sentiment timeline.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendSteady    = "steady"
)

// responsivenessHalfLife is the mean response time, in seconds, that maps to
// a responsiveness component of exactly 0.5.
const responsivenessHalfLife = 1800.0

// trendWindow and trendThreshold control mood-trend detection: the mean of
// the first trendWindow days is compared against the mean of the last.
const (
	trendWindow    = 7
	trendThreshold = 0.05
)

// CompositeBundle is the derived-score output group of an AnalysisResult.
// Component maps expose every formula input so the scores are auditable.
type CompositeBundle struct {
	AffectionScore      float64            `json:"affection_score"`
	AffectionComponents map[string]float64 `json:"affection_components"`

	CompatibilityIndex      float64            `json:"compatibility_index"`
	CompatibilityComponents map[string]float64 `json:"compatibility_components"`

	MoodTimeline []DailySentiment `json:"mood_timeline"`
	MoodTrend    string           `json:"mood_trend"`
}

// ComputeComposites joins the three analysis groups into the relationship
// scores. All weights come from cfg.Weights; each group is normalized over
// its own weight sum, and both scores land in [0, 100].
func ComputeComposites(stats StatsBundle, sentiment SentimentBundle, flow FlowBundle, cfg Config) CompositeBundle {
	a, b := participantsOf(stats)

	affection := map[string]float64{
		"positive_ratio": sentiment.PositiveRatio,
		"affection_rate": clamp(sentiment.OverallAffectionRate, 0, 1),
		"responsiveness": responsiveness(stats),
	}
	w := cfg.Weights
	affectionScore := (w.AffectionPositiveRatio*affection["positive_ratio"] +
		w.AffectionLexiconRate*affection["affection_rate"] +
		w.AffectionResponsiveness*affection["responsiveness"]) / sumAffectionWeights(w)

	compat := map[string]float64{
		"balance":             1 - 2*math.Abs(stats.BalanceRatio-0.5),
		"turn_symmetry":       symmetry(flow.TurnStats[a].MeanLength, flow.TurnStats[b].MeanLength),
		"sentiment_alignment": 1 - math.Abs(sentiment.MeanScores[a]-sentiment.MeanScores[b])/2,
		"response_symmetry":   responseSymmetry(stats, a, b),
	}
	compatScore := (w.CompatibilityBalance*compat["balance"] +
		w.CompatibilityTurnSymmetry*compat["turn_symmetry"] +
		w.CompatibilitySentimentAlignment*compat["sentiment_alignment"] +
		w.CompatibilityResponseSymmetry*compat["response_symmetry"]) / sumCompatibilityWeights(w)

	return CompositeBundle{
		AffectionScore:          clamp(affectionScore*100, 0, 100),
		AffectionComponents:     affection,
		CompatibilityIndex:      clamp(compatScore*100, 0, 100),
		CompatibilityComponents: compat,
		MoodTimeline:            sentiment.Daily,
		MoodTrend:               moodTrend(sentiment.Daily),
	}
}

// participantsOf recovers the two senders from the stats group. Every
// component using them is symmetric, so their order does not matter.
func participantsOf(stats StatsBundle) (string, string) {
	names := make([]string, 0, 2)
	for sender := range stats.MessageCounts {
		names = append(names, sender)
	}
	sort.Strings(names)
	if len(names) < 2 {
		return "", ""
	}
	return names[0], names[1]
}

// responsiveness maps the mean response time of both directions onto (0, 1]:
// an instant reply scores 1, a reply after the half-life scores 0.5. With no
// response data at all it is the neutral 0.5.
func responsiveness(stats StatsBundle) float64 {
	var sum float64
	var n int
	for _, rs := range stats.ResponseTimes {
		sum += rs.Mean
		n++
	}
	if n == 0 {
		return 0.5
	}
	mean := sum / float64(n)
	return responsivenessHalfLife / (responsivenessHalfLife + mean)
}

// symmetry is min/max of two non-negative quantities, 0.5 when either side
// has no data.
func symmetry(x, y float64) float64 {
	if x <= 0 || y <= 0 {
		return 0.5
	}
	if x > y {
		x, y = y, x
	}
	return x / y
}

func responseSymmetry(stats StatsBundle, a, b string) float64 {
	ra, okA := stats.ResponseTimes[a]
	rb, okB := stats.ResponseTimes[b]
	if !okA || !okB {
		return 0.5
	}
	return symmetry(ra.Mean, rb.Mean)
}

// moodTrend compares the opening days of the timeline against the closing
// days. The windows never overlap: each covers at most half the timeline,
// capped at trendWindow days. Fewer than two days is always steady.
func moodTrend(daily []DailySentiment) string {
	if len(daily) < 2 {
		return TrendSteady
	}
	window := len(daily) / 2
	if window > trendWindow {
		window = trendWindow
	}
	diff := meanDaily(daily[len(daily)-window:]) - meanDaily(daily[:window])
	switch {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	default:
		return TrendSteady
	}
}

func meanDaily(daily []DailySentiment) float64 {
	var sum float64
	for _, d := range daily {
		sum += d.Score
	}
	return sum / float64(len(daily))
}
