package engine

import (
	"math"
	"testing"
	"time"
)

func testMsg(sender, ts, text string) Message {
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		panic(err)
	}
	return Message{Sender: sender, Timestamp: t, Text: text, Emojis: ExtractEmojis(text)}
}

func testConv(msgs ...Message) Conversation {
	seen := make(map[string]struct{}, 2)
	var parts []string
	for i := range msgs {
		msgs[i].index = i
		if _, ok := seen[msgs[i].Sender]; !ok {
			seen[msgs[i].Sender] = struct{}{}
			parts = append(parts, msgs[i].Sender)
		}
	}
	conv := Conversation{Messages: msgs}
	copy(conv.Participants[:], parts)
	return conv
}

func TestClassifyMessage_Scores(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cases := []struct {
		name      string
		msg       Message
		wantScore float64
		wantLabel string
	}{
		{
			// tokens: love(+1), amazing(+1), day(0) -> 2/3
			name:      "positive words",
			msg:       Message{Sender: "a", Text: "love this amazing day"},
			wantScore: 2.0 / 3.0,
			wantLabel: SentimentPositive,
		},
		{
			// tokens: hate(-1), traffic(0) -> -1/2
			name:      "negative word",
			msg:       Message{Sender: "a", Text: "hate traffic"},
			wantScore: -0.5,
			wantLabel: SentimentNegative,
		},
		{
			name:      "neutral words",
			msg:       Message{Sender: "a", Text: "meeting tomorrow noon"},
			wantScore: 0,
			wantLabel: SentimentNeutral,
		},
		{
			// emoji counts toward both sum and denominator: (1+1)/2
			name:      "emoji only",
			msg:       Message{Sender: "a", Text: "😍❤", Emojis: []string{"😍", "❤"}},
			wantScore: 1,
			wantLabel: SentimentPositive,
		},
		{
			name:      "media is neutral",
			msg:       Message{Sender: "a", Text: "<Media omitted>", IsMedia: true},
			wantScore: 0,
			wantLabel: SentimentNeutral,
		},
		{
			name:      "empty is neutral",
			msg:       Message{Sender: "a", Text: ""},
			wantScore: 0,
			wantLabel: SentimentNeutral,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ClassifyMessage(tc.msg, cfg)
			if math.Abs(got.Score-tc.wantScore) > 1e-12 {
				t.Fatalf("Score=%v, want %v", got.Score, tc.wantScore)
			}
			if got.Label != tc.wantLabel {
				t.Fatalf("Label=%q, want %q", got.Label, tc.wantLabel)
			}
		})
	}
}

func TestComputeSentiment_Aggregates(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	conv := testConv(
		testMsg("John", "2023-12-01 10:00:00", "love this amazing day"),
		testMsg("Jane", "2023-12-01 10:01:00", "hate traffic"),
		testMsg("John", "2023-12-02 09:00:00", "meeting tomorrow noon"),
		testMsg("Jane", "2023-12-02 09:05:00", "miss you sweetheart ❤"),
	)
	got := ComputeSentiment(conv, cfg)

	if got.Distribution["John"][SentimentPositive] != 1 ||
		got.Distribution["John"][SentimentNeutral] != 1 {
		t.Fatalf("John distribution=%v", got.Distribution["John"])
	}
	if got.Distribution["Jane"][SentimentNegative] != 1 ||
		got.Distribution["Jane"][SentimentPositive] != 1 {
		t.Fatalf("Jane distribution=%v", got.Distribution["Jane"])
	}
	if got.PositiveRatio != 0.5 || got.NegativeRatio != 0.25 {
		t.Fatalf("ratios=%v/%v, want 0.5/0.25", got.PositiveRatio, got.NegativeRatio)
	}

	// "miss", "sweetheart" and the heart emoji are affection hits: 3 over
	// Jane's 2 messages.
	if math.Abs(got.AffectionRate["Jane"]-1.5) > 1e-12 {
		t.Fatalf("Jane AffectionRate=%v, want 1.5", got.AffectionRate["Jane"])
	}

	if len(got.Daily) != 2 {
		t.Fatalf("len(Daily)=%d, want 2", len(got.Daily))
	}
	if got.Daily[0].Date != "2023-12-01" || got.Daily[1].Date != "2023-12-02" {
		t.Fatalf("Daily dates=%s,%s", got.Daily[0].Date, got.Daily[1].Date)
	}
	if got.Daily[0].Messages != 2 {
		t.Fatalf("Daily[0].Messages=%d, want 2", got.Daily[0].Messages)
	}
}

func TestComputeSentiment_MoodLabels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		pos, neg float64
		want     string
	}{
		{"very positive", 0.5, 0.1, "very positive"},
		{"positive", 0.3, 0.1, "positive"},
		{"tense", 0.1, 0.4, "tense"},
		{"balanced", 0.1, 0.1, "balanced"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := moodLabel(tc.pos, tc.neg); got != tc.want {
				t.Fatalf("moodLabel(%v, %v)=%q, want %q", tc.pos, tc.neg, got, tc.want)
			}
		})
	}
}
