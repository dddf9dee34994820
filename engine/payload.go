package engine

// InsightPayload is the numeric and categorical digest handed to external
// text-generation collaborators. It carries no message text, which bounds
// prompt size and keeps transcript content out of third-party requests.
type InsightPayload struct {
	Participants   [2]string `json:"participants"`
	TotalMessages  int       `json:"total_messages"`
	WindowMessages int       `json:"window_messages"`

	MessageCounts map[string]int `json:"message_counts"`
	BalanceRatio  float64        `json:"balance_ratio"`

	MeanResponseSeconds map[string]float64 `json:"mean_response_seconds"`
	LeftOnDelivered     map[string]int     `json:"left_on_delivered"`

	MostActiveHour int    `json:"most_active_hour"`
	MostActiveDay  string `json:"most_active_day"`
	NightOwl       string `json:"night_owl,omitempty"`
	EarlyBird      string `json:"early_bird,omitempty"`
	LateNightCount int    `json:"late_night_count"`

	PositiveRatio float64            `json:"positive_ratio"`
	NegativeRatio float64            `json:"negative_ratio"`
	MeanScores    map[string]float64 `json:"mean_scores"`
	OverallMood   string             `json:"overall_mood"`
	MoodTrend     string             `json:"mood_trend"`

	InitiatorCounts    map[string]int `json:"initiator_counts"`
	ConversationStarts map[string]int `json:"conversation_starts"`
	LongestStreak      int            `json:"longest_streak_days"`
	LongestGap         int            `json:"longest_gap_days"`

	TopEmojis   []EmojiCount   `json:"top_emojis"`
	EmojiTotals map[string]int `json:"emoji_totals"`

	ActiveDays int `json:"active_days"`
	SpanDays   int `json:"span_days"`

	AffectionScore     float64 `json:"affection_score"`
	CompatibilityIndex float64 `json:"compatibility_index"`
}

const payloadTopEmojis = 10

// BuildInsightPayload digests an analysis into the fields an insight
// generator may see. When the conversation exceeds MaxMessagesForInsights,
// the groups are recomputed over the most recent window so the payload
// reflects current behavior rather than all-time aggregates.
func BuildInsightPayload(conv Conversation, res *AnalysisResult, cfg Config) InsightPayload {
	stats := res.Stats
	sentiment := res.Sentiment
	flow := res.Flow
	composites := res.Composites
	window := len(conv.Messages)

	if limit := cfg.MaxMessagesForInsights; window > limit {
		window = limit
		recent := Conversation{
			Participants: conv.Participants,
			Messages:     conv.Messages[len(conv.Messages)-limit:],
		}
		stats = ComputeStats(recent, cfg)
		sentiment = ComputeSentiment(recent, cfg)
		flow = AnalyzeFlow(recent, cfg)
		composites = ComputeComposites(stats, sentiment, flow, cfg)
	}

	means := make(map[string]float64, len(stats.ResponseTimes))
	for sender, rs := range stats.ResponseTimes {
		means[sender] = rs.Mean
	}

	topEmojis := stats.TopEmojis
	if len(topEmojis) > payloadTopEmojis {
		topEmojis = topEmojis[:payloadTopEmojis]
	}

	return InsightPayload{
		Participants:        conv.Participants,
		TotalMessages:       len(conv.Messages),
		WindowMessages:      window,
		MessageCounts:       stats.MessageCounts,
		BalanceRatio:        stats.BalanceRatio,
		MeanResponseSeconds: means,
		LeftOnDelivered:     stats.LeftOnDelivered,
		MostActiveHour:      stats.MostActiveHour,
		MostActiveDay:       stats.MostActiveDay,
		NightOwl:            stats.NightOwl,
		EarlyBird:           stats.EarlyBird,
		LateNightCount:      stats.LateNightCount,
		PositiveRatio:       sentiment.PositiveRatio,
		NegativeRatio:       sentiment.NegativeRatio,
		MeanScores:          sentiment.MeanScores,
		OverallMood:         sentiment.OverallMood,
		MoodTrend:           composites.MoodTrend,
		InitiatorCounts:     flow.InitiatorCounts,
		ConversationStarts:  flow.ConversationStarts,
		LongestStreak:       flow.LongestStreak,
		LongestGap:          flow.LongestGap,
		TopEmojis:           topEmojis,
		EmojiTotals:         stats.EmojiTotals,
		ActiveDays:          stats.Milestones.ActiveDays,
		SpanDays:            stats.Milestones.SpanDays,
		AffectionScore:      composites.AffectionScore,
		CompatibilityIndex:  composites.CompatibilityIndex,
	}
}
