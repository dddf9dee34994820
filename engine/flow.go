package engine

import (
	"strings"
	"time"
)

// Turn is a maximal run of consecutive messages from one sender.
type Turn struct {
	Sender   string  `json:"sender"`
	Messages int     `json:"messages"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Duration float64 `json:"duration_seconds"`
}

// TurnStats summarizes one participant's turns.
type TurnStats struct {
	Turns      int     `json:"turns"`
	MeanLength float64 `json:"mean_length"`
	LongestRun int     `json:"longest_run"`
}

// DayRun is a maximal run of consecutive calendar days sharing one property:
// mutual activity (streak) or zero activity (gap).
type DayRun struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// FlowBundle is the Conversation-Flow output group of an AnalysisResult.
type FlowBundle struct {
	Turns     []Turn               `json:"turns"`
	TurnStats map[string]TurnStats `json:"turn_stats"`

	// DailyInitiators maps calendar date to the sender of that day's first
	// message.
	DailyInitiators map[string]string `json:"daily_initiators"`
	InitiatorCounts map[string]int    `json:"initiator_counts"`

	// ConversationStarts counts, per sender, messages that opened a new
	// conversation: the very first message, or any message after an idle
	// period longer than Config.ConversationGap.
	ConversationStarts map[string]int `json:"conversation_starts"`
	StarterWordCounts  map[string]int `json:"starter_word_counts"`

	Streaks       []DayRun `json:"streaks"`
	Gaps          []DayRun `json:"gaps"`
	LongestStreak int      `json:"longest_streak_days"`
	LongestGap    int      `json:"longest_gap_days"`
}

// AnalyzeFlow derives turn-taking, initiator, opener and streak/gap metrics
// from an immutable conversation.
func AnalyzeFlow(conv Conversation, cfg Config) FlowBundle {
	out := FlowBundle{
		TurnStats:          make(map[string]TurnStats, 2),
		DailyInitiators:    make(map[string]string),
		InitiatorCounts:    make(map[string]int, 2),
		ConversationStarts: make(map[string]int, 2),
		StarterWordCounts:  make(map[string]int),
	}

	out.Turns = buildTurns(conv.Messages)
	for _, sender := range conv.Participants {
		out.TurnStats[sender] = summarizeTurns(out.Turns, sender)
	}

	for i, m := range conv.Messages {
		date := m.Date()
		if _, seen := out.DailyInitiators[date]; !seen {
			out.DailyInitiators[date] = m.Sender
			out.InitiatorCounts[m.Sender]++
		}

		opener := i == 0 ||
			m.Timestamp.Sub(conv.Messages[i-1].Timestamp) > cfg.ConversationGap
		if opener {
			out.ConversationStarts[m.Sender]++
			for _, w := range leadingWords(m.Text, 3) {
				if _, ok := cfg.StarterWords[w]; ok {
					out.StarterWordCounts[w]++
				}
			}
		}
	}

	out.Streaks, out.Gaps = dayRuns(conv)
	for _, s := range out.Streaks {
		if s.Days > out.LongestStreak {
			out.LongestStreak = s.Days
		}
	}
	for _, g := range out.Gaps {
		if g.Days > out.LongestGap {
			out.LongestGap = g.Days
		}
	}
	return out
}

func buildTurns(msgs []Message) []Turn {
	var turns []Turn
	for i := 0; i < len(msgs); {
		j := i
		for j < len(msgs) && msgs[j].Sender == msgs[i].Sender {
			j++
		}
		turns = append(turns, Turn{
			Sender:   msgs[i].Sender,
			Messages: j - i,
			Start:    msgs[i].Timestamp.Format(time.RFC3339),
			End:      msgs[j-1].Timestamp.Format(time.RFC3339),
			Duration: msgs[j-1].Timestamp.Sub(msgs[i].Timestamp).Seconds(),
		})
		i = j
	}
	return turns
}

func summarizeTurns(turns []Turn, sender string) TurnStats {
	var st TurnStats
	total := 0
	for _, t := range turns {
		if t.Sender != sender {
			continue
		}
		st.Turns++
		total += t.Messages
		if t.Messages > st.LongestRun {
			st.LongestRun = t.Messages
		}
	}
	if st.Turns > 0 {
		st.MeanLength = float64(total) / float64(st.Turns)
	}
	return st
}

// leadingWords returns up to n lowercased words from the front of text,
// stripped of surrounding punctuation. Unlike Tokenize it keeps short words
// and stopwords, since greetings are both.
func leadingWords(text string, n int) []string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) > n {
		fields = fields[:n]
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// dayRuns walks every calendar day between the first and last message and
// collects maximal streaks (both participants active) and gaps (no activity).
// Days where only one participant wrote belong to neither, so the three
// classes partition the span.
func dayRuns(conv Conversation) (streaks, gaps []DayRun) {
	active := make(map[string]map[string]bool)
	for _, m := range conv.Messages {
		d := m.Date()
		if active[d] == nil {
			active[d] = make(map[string]bool, 2)
		}
		active[d][m.Sender] = true
	}

	first := midnight(conv.Messages[0].Timestamp)
	last := midnight(conv.Messages[len(conv.Messages)-1].Timestamp)

	type dayClass int
	const (
		classNeither dayClass = iota
		classStreak
		classGap
	)
	classify := func(d time.Time) dayClass {
		senders := active[d.Format(dateLayout)]
		switch {
		case len(senders) == 2:
			return classStreak
		case len(senders) == 0:
			return classGap
		default:
			return classNeither
		}
	}

	runStart := first
	runClass := classify(first)
	flush := func(end time.Time) {
		run := DayRun{
			StartDate: runStart.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
			Days:      int(end.Sub(runStart)/(24*time.Hour)) + 1,
		}
		switch runClass {
		case classStreak:
			streaks = append(streaks, run)
		case classGap:
			gaps = append(gaps, run)
		}
	}

	prev := first
	for d := first.AddDate(0, 0, 1); !d.After(last); d = d.AddDate(0, 0, 1) {
		if c := classify(d); c != runClass {
			flush(prev)
			runStart = d
			runClass = c
		}
		prev = d
	}
	flush(last)
	return streaks, gaps
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
