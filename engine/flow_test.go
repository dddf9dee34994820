package engine

import (
	"testing"
)

func TestAnalyzeFlow_TurnPartition(t *testing.T) {
	t.Parallel()

	conv := testConv(
		testMsg("John", "2023-12-01 10:00:00", "hey"),
		testMsg("John", "2023-12-01 10:00:30", "you there?"),
		testMsg("Jane", "2023-12-01 10:01:00", "yep"),
		testMsg("John", "2023-12-01 10:02:00", "lunch?"),
		testMsg("Jane", "2023-12-01 10:03:00", "sure"),
		testMsg("Jane", "2023-12-01 10:03:10", "usual place"),
	)
	got := AnalyzeFlow(conv, DefaultConfig())

	sum := 0
	for i, turn := range got.Turns {
		sum += turn.Messages
		if i > 0 && got.Turns[i-1].Sender == turn.Sender {
			t.Fatalf("turns %d and %d share sender %q", i-1, i, turn.Sender)
		}
	}
	if sum != len(conv.Messages) {
		t.Fatalf("turn message sum=%d, want %d", sum, len(conv.Messages))
	}
	if len(got.Turns) != 4 {
		t.Fatalf("len(Turns)=%d, want 4", len(got.Turns))
	}
	if got.Turns[0].Messages != 2 || got.Turns[0].Duration != 30 {
		t.Fatalf("turn0=%+v, want 2 messages over 30s", got.Turns[0])
	}

	john := got.TurnStats["John"]
	if john.Turns != 2 || john.MeanLength != 1.5 || john.LongestRun != 2 {
		t.Fatalf("TurnStats[John]=%+v", john)
	}
}

func TestAnalyzeFlow_DailyInitiators(t *testing.T) {
	t.Parallel()

	in := "[12/1/23, 10:30:45 AM] John: Hey, how are you?\n" +
		"[12/1/23, 10:31:02 AM] Jane: I'm doing great! How about you?"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := AnalyzeFlow(conv, DefaultConfig())

	if got.DailyInitiators["2023-12-01"] != "John" {
		t.Fatalf("initiator=%q, want John", got.DailyInitiators["2023-12-01"])
	}
	if got.InitiatorCounts["John"] != 1 {
		t.Fatalf("InitiatorCounts=%v", got.InitiatorCounts)
	}
}

func TestAnalyzeFlow_StreaksAndGaps(t *testing.T) {
	t.Parallel()

	// Day 1: both active. Day 2: only John. Day 3: silence. Day 4: both.
	conv := testConv(
		testMsg("John", "2023-12-01 10:00:00", "hey lunch plans"),
		testMsg("Jane", "2023-12-01 10:05:00", "sure"),
		testMsg("John", "2023-12-02 10:00:00", "morning"),
		testMsg("John", "2023-12-04 10:00:00", "hello again"),
		testMsg("Jane", "2023-12-04 10:05:00", "hi"),
	)
	got := AnalyzeFlow(conv, DefaultConfig())

	wantStreaks := []DayRun{
		{StartDate: "2023-12-01", EndDate: "2023-12-01", Days: 1},
		{StartDate: "2023-12-04", EndDate: "2023-12-04", Days: 1},
	}
	if len(got.Streaks) != len(wantStreaks) {
		t.Fatalf("Streaks=%v, want %v", got.Streaks, wantStreaks)
	}
	for i, want := range wantStreaks {
		if got.Streaks[i] != want {
			t.Fatalf("Streaks[%d]=%v, want %v", i, got.Streaks[i], want)
		}
	}

	wantGap := DayRun{StartDate: "2023-12-03", EndDate: "2023-12-03", Days: 1}
	if len(got.Gaps) != 1 || got.Gaps[0] != wantGap {
		t.Fatalf("Gaps=%v, want [%v]", got.Gaps, wantGap)
	}
	if got.LongestStreak != 1 || got.LongestGap != 1 {
		t.Fatalf("longest streak=%d gap=%d, want 1 and 1", got.LongestStreak, got.LongestGap)
	}

	// Every day in the span lands in at most one class; day 2 (single-sided
	// activity) belongs to neither.
	covered := make(map[string]int)
	for _, s := range got.Streaks {
		covered[s.StartDate]++
	}
	for _, g := range got.Gaps {
		covered[g.StartDate]++
	}
	if covered["2023-12-02"] != 0 {
		t.Fatalf("single-sided day classified: %v", covered)
	}
	for d, n := range covered {
		if n > 1 {
			t.Fatalf("day %s double-counted", d)
		}
	}
}

func TestAnalyzeFlow_ConversationStartsAndStarterWords(t *testing.T) {
	t.Parallel()

	conv := testConv(
		testMsg("John", "2023-12-01 10:00:00", "hey lunch plans"),
		testMsg("Jane", "2023-12-01 10:05:00", "sure"),
		testMsg("John", "2023-12-02 09:00:00", "morning"),
		testMsg("Jane", "2023-12-02 09:02:00", "gm"),
	)
	got := AnalyzeFlow(conv, DefaultConfig())

	if got.ConversationStarts["John"] != 2 {
		t.Fatalf("ConversationStarts[John]=%d, want 2", got.ConversationStarts["John"])
	}
	if got.ConversationStarts["Jane"] != 0 {
		t.Fatalf("ConversationStarts[Jane]=%d, want 0", got.ConversationStarts["Jane"])
	}
	if got.StarterWordCounts["hey"] != 1 || got.StarterWordCounts["morning"] != 1 {
		t.Fatalf("StarterWordCounts=%v", got.StarterWordCounts)
	}
}

func TestAnalyzeFlow_SingleDayConversation(t *testing.T) {
	t.Parallel()

	conv := testConv(
		testMsg("John", "2023-12-01 10:00:00", "hey"),
		testMsg("Jane", "2023-12-01 10:01:00", "hi"),
	)
	got := AnalyzeFlow(conv, DefaultConfig())

	if len(got.Streaks) != 1 || got.Streaks[0].Days != 1 {
		t.Fatalf("Streaks=%v, want one 1-day streak", got.Streaks)
	}
	if len(got.Gaps) != 0 {
		t.Fatalf("Gaps=%v, want none", got.Gaps)
	}
}
