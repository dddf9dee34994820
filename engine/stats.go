package engine

import (
	"sort"
	"time"
)

// ResponseStats summarizes how quickly one participant answers the other.
// Durations are in seconds. A participant with no recorded responses has no
// entry in StatsBundle.ResponseTimes at all; absence is the "no data" marker.
type ResponseStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean_seconds"`
	Median float64 `json:"median_seconds"`
	P25    float64 `json:"p25_seconds"`
	P75    float64 `json:"p75_seconds"`
	P90    float64 `json:"p90_seconds"`
}

// WordCount is one entry of a word-frequency leaderboard.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// EmojiCount is one entry of an emoji leaderboard.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// Milestones are the calendar landmarks of a conversation.
type Milestones struct {
	FirstMessageDate    string `json:"first_message_date"`
	LastMessageDate     string `json:"last_message_date"`
	MostActiveDate      string `json:"most_active_date"`
	MostActiveDateCount int    `json:"most_active_date_count"`
	ActiveDays          int    `json:"active_days"`
	SpanDays            int    `json:"span_days"`
}

// StatsBundle is the Statistics output group of an AnalysisResult.
type StatsBundle struct {
	TotalMessages int            `json:"total_messages"`
	MessageCounts map[string]int `json:"message_counts"`
	WordCounts    map[string]int `json:"word_counts"`
	MediaCounts   map[string]int `json:"media_counts"`

	// MeanWordsPerMessage averages filtered word counts over all of a
	// participant's messages, media included.
	MeanWordsPerMessage map[string]float64 `json:"mean_words_per_message"`

	// BalanceRatio is the first participant's share of all messages.
	BalanceRatio float64 `json:"balance_ratio"`

	// ResponseTimes has an entry per participant that recorded at least one
	// response; a one-sided conversation direction is simply absent.
	ResponseTimes map[string]ResponseStats  `json:"response_times"`
	SpeedBuckets  map[string]map[string]int `json:"speed_buckets"`

	// LeftOnDelivered counts replies that arrived only after the response-gap
	// threshold, keyed by the late responder.
	LeftOnDelivered map[string]int `json:"left_on_delivered"`

	HourHistogram  [24]int            `json:"hour_histogram"`
	DayHistogram   [7]int             `json:"day_histogram"`
	SenderHourly   map[string][24]int `json:"sender_hourly"`
	MostActiveHour int                `json:"most_active_hour"`
	MostActiveDay  string             `json:"most_active_day"`
	NightOwl       string             `json:"night_owl,omitempty"`
	EarlyBird      string             `json:"early_bird,omitempty"`
	LateNightCount int                `json:"late_night_count"`

	TopWords         []WordCount            `json:"top_words"`
	SenderTopWords   map[string][]WordCount `json:"sender_top_words"`
	SharedWords      []string               `json:"shared_words"`
	UniqueWordCounts map[string]int         `json:"unique_word_counts"`

	TopEmojis       []EmojiCount            `json:"top_emojis"`
	SenderTopEmojis map[string][]EmojiCount `json:"sender_top_emojis"`
	EmojiTotals     map[string]int          `json:"emoji_totals"`

	Milestones Milestones `json:"milestones"`
}

const (
	topWordsLimit       = 50
	senderTopWordsLimit = 20
	topEmojisLimit      = 20
	sharedWordsLimit    = 20
	earlyBirdStart      = 5
	earlyBirdEnd        = 9
)

// speedBuckets label response latencies, fastest first. Responses slower than
// Config.ResponseGap never reach a bucket; they count as left-on-delivered.
var speedBuckets = []struct {
	Label string
	Limit time.Duration
}{
	{"instant", time.Minute},
	{"very_fast", 5 * time.Minute},
	{"fast", 15 * time.Minute},
	{"medium", time.Hour},
	{"slow", 3 * time.Hour},
	{"very_slow", 24 * time.Hour},
}

func speedBucket(d time.Duration) string {
	for _, b := range speedBuckets {
		if d < b.Limit {
			return b.Label
		}
	}
	return speedBuckets[len(speedBuckets)-1].Label
}

// ComputeStats derives the full statistics group from an immutable
// conversation. It never fails: undefined quantities are absent map keys.
func ComputeStats(conv Conversation, cfg Config) StatsBundle {
	a, b := conv.Participants[0], conv.Participants[1]
	out := StatsBundle{
		TotalMessages:   len(conv.Messages),
		MessageCounts:   map[string]int{a: 0, b: 0},
		WordCounts:      map[string]int{a: 0, b: 0},
		MediaCounts:     map[string]int{a: 0, b: 0},
		ResponseTimes:   make(map[string]ResponseStats),
		SpeedBuckets:    make(map[string]map[string]int),
		LeftOnDelivered: make(map[string]int),
		SenderHourly:    make(map[string][24]int),
		EmojiTotals:     map[string]int{a: 0, b: 0},
	}

	var (
		responseSecs = make(map[string][]float64)
		senderHourly = map[string]*[24]int{a: {}, b: {}}
		wordFreq     = make(map[string]int)
		senderWords  = map[string]map[string]int{a: {}, b: {}}
		emojiFreq    = make(map[string]int)
		senderEmojis = map[string]map[string]int{a: {}, b: {}}
		dailyCounts  = make(map[string]int)
	)

	for i, m := range conv.Messages {
		out.MessageCounts[m.Sender]++
		hour := m.Timestamp.Hour()
		out.HourHistogram[hour]++
		out.DayHistogram[int(m.Timestamp.Weekday())]++
		senderHourly[m.Sender][hour]++
		dailyCounts[m.Date()]++
		if hour >= cfg.LateNightStart && hour < cfg.LateNightEnd {
			out.LateNightCount++
		}

		if m.IsMedia {
			out.MediaCounts[m.Sender]++
		} else {
			tokens := Tokenize(m.Text, cfg)
			out.WordCounts[m.Sender] += len(tokens)
			for _, w := range tokens {
				wordFreq[w]++
				senderWords[m.Sender][w]++
			}
			for _, e := range m.Emojis {
				emojiFreq[e]++
				senderEmojis[m.Sender][e]++
				out.EmojiTotals[m.Sender]++
			}
		}

		if i == 0 {
			continue
		}
		prev := conv.Messages[i-1]
		if prev.Sender == m.Sender {
			continue
		}
		delta := m.Timestamp.Sub(prev.Timestamp)
		if delta < 0 {
			delta = 0
		}
		if delta > cfg.ResponseGap {
			out.LeftOnDelivered[m.Sender]++
			continue
		}
		responseSecs[m.Sender] = append(responseSecs[m.Sender], delta.Seconds())
		buckets := out.SpeedBuckets[m.Sender]
		if buckets == nil {
			buckets = make(map[string]int)
			out.SpeedBuckets[m.Sender] = buckets
		}
		buckets[speedBucket(delta)]++
	}

	for sender, secs := range responseSecs {
		out.ResponseTimes[sender] = summarizeResponses(secs)
	}
	for sender, hours := range senderHourly {
		out.SenderHourly[sender] = *hours
	}

	out.MeanWordsPerMessage = make(map[string]float64, 2)
	for _, sender := range []string{a, b} {
		if n := out.MessageCounts[sender]; n > 0 {
			out.MeanWordsPerMessage[sender] = float64(out.WordCounts[sender]) / float64(n)
		}
	}

	out.BalanceRatio = float64(out.MessageCounts[a]) / float64(len(conv.Messages))
	out.MostActiveHour = argmax(out.HourHistogram[:])
	out.MostActiveDay = time.Weekday(argmax(out.DayHistogram[:])).String()
	out.NightOwl = hourWindowLeader(senderHourly, a, b, cfg.LateNightStart, cfg.LateNightEnd)
	out.EarlyBird = hourWindowLeader(senderHourly, a, b, earlyBirdStart, earlyBirdEnd)

	out.TopWords = topCounts(wordFreq, topWordsLimit)
	out.SenderTopWords = map[string][]WordCount{
		a: topCounts(senderWords[a], senderTopWordsLimit),
		b: topCounts(senderWords[b], senderTopWordsLimit),
	}
	out.SharedWords = sharedWords(senderWords[a], senderWords[b])
	out.UniqueWordCounts = map[string]int{
		a: uniqueWordCount(senderWords[a], senderWords[b]),
		b: uniqueWordCount(senderWords[b], senderWords[a]),
	}

	out.TopEmojis = topEmojiCounts(emojiFreq, topEmojisLimit)
	out.SenderTopEmojis = map[string][]EmojiCount{
		a: topEmojiCounts(senderEmojis[a], topEmojisLimit),
		b: topEmojiCounts(senderEmojis[b], topEmojisLimit),
	}

	out.Milestones = computeMilestones(conv, dailyCounts)
	return out
}

// summarizeResponses uses sorted-index percentiles so small samples still get
// defined values; the input slice is sorted in place.
func summarizeResponses(secs []float64) ResponseStats {
	sort.Float64s(secs)
	n := len(secs)
	var sum float64
	for _, s := range secs {
		sum += s
	}
	return ResponseStats{
		Count:  n,
		Mean:   sum / float64(n),
		Median: secs[n/2],
		P25:    secs[n/4],
		P75:    secs[int(float64(n)*0.75)],
		P90:    secs[int(float64(n)*0.9)],
	}
}

// argmax returns the lowest index holding the maximum value, so histogram
// ties resolve to the earliest bucket.
func argmax(hist []int) int {
	best := 0
	for i, v := range hist {
		if v > hist[best] {
			best = i
		}
	}
	return best
}

// hourWindowLeader names the participant with strictly more messages inside
// [start, end); a tie (including zero activity) names nobody.
func hourWindowLeader(senderHourly map[string]*[24]int, a, b string, start, end int) string {
	var countA, countB int
	for h := start; h < end && h < 24; h++ {
		countA += senderHourly[a][h]
		countB += senderHourly[b][h]
	}
	switch {
	case countA > countB:
		return a
	case countB > countA:
		return b
	default:
		return ""
	}
}

// topCounts returns the limit most frequent words; ties break alphabetically
// so repeated runs produce identical output.
func topCounts(freq map[string]int, limit int) []WordCount {
	out := make([]WordCount, 0, len(freq))
	for w, c := range freq {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func topEmojiCounts(freq map[string]int, limit int) []EmojiCount {
	out := make([]EmojiCount, 0, len(freq))
	for e, c := range freq {
		out = append(out, EmojiCount{Emoji: e, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emoji < out[j].Emoji
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sharedWords lists vocabulary both participants used, ordered by combined
// frequency.
func sharedWords(wordsA, wordsB map[string]int) []string {
	type shared struct {
		word  string
		total int
	}
	var both []shared
	for w, ca := range wordsA {
		if cb, ok := wordsB[w]; ok {
			both = append(both, shared{word: w, total: ca + cb})
		}
	}
	sort.Slice(both, func(i, j int) bool {
		if both[i].total != both[j].total {
			return both[i].total > both[j].total
		}
		return both[i].word < both[j].word
	})
	if len(both) > sharedWordsLimit {
		both = both[:sharedWordsLimit]
	}
	out := make([]string, len(both))
	for i, s := range both {
		out[i] = s.word
	}
	return out
}

func uniqueWordCount(own, other map[string]int) int {
	n := 0
	for w := range own {
		if _, ok := other[w]; !ok {
			n++
		}
	}
	return n
}

func computeMilestones(conv Conversation, dailyCounts map[string]int) Milestones {
	first := conv.Messages[0].Timestamp
	last := conv.Messages[len(conv.Messages)-1].Timestamp

	mostActiveDate := ""
	mostActiveCount := 0
	for date, count := range dailyCounts {
		if count > mostActiveCount || (count == mostActiveCount && date < mostActiveDate) {
			mostActiveDate = date
			mostActiveCount = count
		}
	}

	firstDay := first.Truncate(24 * time.Hour)
	lastDay := last.Truncate(24 * time.Hour)
	return Milestones{
		FirstMessageDate:    first.Format(dateLayout),
		LastMessageDate:     last.Format(dateLayout),
		MostActiveDate:      mostActiveDate,
		MostActiveDateCount: mostActiveCount,
		ActiveDays:          len(dailyCounts),
		SpanDays:            int(lastDay.Sub(firstDay)/(24*time.Hour)) + 1,
	}
}
