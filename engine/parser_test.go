package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParse_BracketedText(t *testing.T) {
	t.Parallel()

	in := "[12/1/23, 10:30:45 AM] John: Hey, how are you?\n" +
		"[12/1/23, 10:31:02 AM] Jane: I'm doing great! How about you?"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("len(Messages)=%d, want 2", len(conv.Messages))
	}
	if conv.Participants != [2]string{"John", "Jane"} {
		t.Fatalf("Participants=%v, want [John Jane]", conv.Participants)
	}
	want := time.Date(2023, 12, 1, 10, 30, 45, 0, time.UTC)
	if !conv.Messages[0].Timestamp.Equal(want) {
		t.Fatalf("msg0 timestamp=%v, want %v", conv.Messages[0].Timestamp, want)
	}
	if got := conv.Messages[1].Timestamp.Sub(conv.Messages[0].Timestamp); got != 17*time.Second {
		t.Fatalf("delta=%v, want 17s", got)
	}
	if conv.Messages[0].Text != "Hey, how are you?" {
		t.Fatalf("msg0 text=%q", conv.Messages[0].Text)
	}
}

func TestParse_DashText(t *testing.T) {
	t.Parallel()

	in := "12/1/23, 10:30 - John: hey\n12/1/23, 10:32 - Jane: hi"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("len(Messages)=%d, want 2", len(conv.Messages))
	}
	if got := conv.Messages[1].Timestamp.Sub(conv.Messages[0].Timestamp); got != 2*time.Minute {
		t.Fatalf("delta=%v, want 2m", got)
	}
}

func TestParse_MultilineMessage(t *testing.T) {
	t.Parallel()

	in := "[12/1/23, 10:30:45 AM] John: first line\n" +
		"second line\n" +
		"[12/1/23, 10:31:02 AM] Jane: ok"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := conv.Messages[0].Text; got != "first line\nsecond line" {
		t.Fatalf("msg0 text=%q, want continuation appended", got)
	}
}

func TestParse_SystemLinesAndSkips(t *testing.T) {
	t.Parallel()

	in := "orphan continuation before any message\n" +
		"[12/1/23, 10:29:00 AM] Messages are end-to-end encrypted. No one outside can read them.\n" +
		"[12/1/23, 10:30:45 AM] John: hey\n" +
		"[12/1/23, 10:31:02 AM] Jane: hi"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("len(Messages)=%d, want 2", len(conv.Messages))
	}
	if conv.Diagnostics.SystemLines != 1 {
		t.Fatalf("SystemLines=%d, want 1", conv.Diagnostics.SystemLines)
	}
	if conv.Diagnostics.SkippedLines != 1 {
		t.Fatalf("SkippedLines=%d, want 1", conv.Diagnostics.SkippedLines)
	}
}

func TestParse_InheritedTimestamp(t *testing.T) {
	t.Parallel()

	in := "[12/1/23, 10:30:45 AM] John: hey\n" +
		"[garbage 99] Jane: hi"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if conv.Diagnostics.InheritedTimestamps != 1 {
		t.Fatalf("InheritedTimestamps=%d, want 1", conv.Diagnostics.InheritedTimestamps)
	}
	if !conv.Messages[1].Timestamp.Equal(conv.Messages[0].Timestamp) {
		t.Fatalf("msg1 timestamp=%v, want inherited %v", conv.Messages[1].Timestamp, conv.Messages[0].Timestamp)
	}
}

func TestParse_OversizedContinuationLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 5<<20)
	in := "[12/1/23, 10:00:00 AM] John: one\n" +
		"[12/1/23, 10:01:00 AM] Jane: two\n" +
		long + "\n" +
		"[12/1/23, 10:02:00 AM] John: three\n" +
		"[12/1/23, 10:03:00 AM] Jane: four"

	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Messages after the huge line must survive.
	if len(conv.Messages) != 4 {
		t.Fatalf("len(Messages)=%d, want 4", len(conv.Messages))
	}
	if got := conv.Messages[1].Text; got != "two\n"+long {
		t.Fatalf("msg1 len=%d, want continuation of %d bytes attached", len(got), len(long))
	}
	if conv.Messages[3].Text != "four" {
		t.Fatalf("msg3 text=%q, want %q", conv.Messages[3].Text, "four")
	}
	if conv.Diagnostics.SkippedLines != 0 {
		t.Fatalf("SkippedLines=%d, want 0", conv.Diagnostics.SkippedLines)
	}
}

func TestParse_IdenticalTimestampsKeepLineOrder(t *testing.T) {
	t.Parallel()

	in := "[12/1/23, 10:30:45 AM] John: first\n" +
		"[12/1/23, 10:30:45 AM] Jane: second"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if conv.Messages[0].Sender != "John" || conv.Messages[1].Sender != "Jane" {
		t.Fatalf("order=%s,%s, want John,Jane", conv.Messages[0].Sender, conv.Messages[1].Sender)
	}
}

func TestParse_JSONArray(t *testing.T) {
	t.Parallel()

	in := `[
		{"sender":"John","timestamp":1701426645,"content":"Hey"},
		{"sender":"Jane","timestamp":1701426662,"content":"Hi"},
		{"timestamp":1701426700,"content":"no sender"}
	]`
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("len(Messages)=%d, want 2", len(conv.Messages))
	}
	if conv.Diagnostics.SkippedElements != 1 {
		t.Fatalf("SkippedElements=%d, want 1", conv.Diagnostics.SkippedElements)
	}
	want := time.Date(2023, 12, 1, 10, 30, 45, 0, time.UTC)
	if !conv.Messages[0].Timestamp.Equal(want) {
		t.Fatalf("msg0 timestamp=%v, want %v", conv.Messages[0].Timestamp, want)
	}
}

func TestParse_JSONMillisecondEpochInTimestampField(t *testing.T) {
	t.Parallel()

	// Some exports put epoch milliseconds in the plain timestamp field.
	in := `[
		{"sender":"John","timestamp":1701426645000,"content":"Hey"},
		{"sender":"Jane","timestamp":1701426662000,"content":"Hi"}
	]`
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2023, 12, 1, 10, 30, 45, 0, time.UTC)
	if !conv.Messages[0].Timestamp.Equal(want) {
		t.Fatalf("msg0 timestamp=%v, want %v", conv.Messages[0].Timestamp, want)
	}
}

func TestParse_JSONObjectWrapper(t *testing.T) {
	t.Parallel()

	in := `{"messages":[
		{"sender_name":"John","timestamp_ms":1701426645000,"text":"Hey"},
		{"sender_name":"Jane","timestamp":"2023-12-01T10:31:02Z","content":"Hi"}
	]}`
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("len(Messages)=%d, want 2", len(conv.Messages))
	}
	if conv.Messages[1].Sender != "Jane" {
		t.Fatalf("msg1 sender=%q, want Jane", conv.Messages[1].Sender)
	}
}

func TestParse_BracketedTextNotMistakenForJSON(t *testing.T) {
	t.Parallel()

	// Starts with '[' like a JSON array but is a text export.
	in := "[12/1/23, 10:30:45 AM] John: hey\n[12/1/23, 10:31:02 AM] Jane: hi"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if conv.Messages[0].Sender != "John" {
		t.Fatalf("msg0 sender=%q, want John", conv.Messages[0].Sender)
	}
}

func TestParse_MediaAndEmojis(t *testing.T) {
	t.Parallel()

	in := "[12/1/23, 10:30:45 AM] John: <Media omitted>\n" +
		"[12/1/23, 10:31:02 AM] Jane: love it ❤️😍"
	conv, err := Parse([]byte(in), DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !conv.Messages[0].IsMedia {
		t.Fatalf("msg0 IsMedia=false, want true")
	}
	got := conv.Messages[1].Emojis
	if len(got) != 2 || got[0] != "❤" || got[1] != "😍" {
		t.Fatalf("Emojis=%v, want [❤ 😍]", got)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t\n"},
		{"no recognizable lines", "just some prose\nwithout any timestamps"},
		{"one participant", "[12/1/23, 10:30:45 AM] John: hey\n[12/1/23, 10:31:02 AM] John: anyone?"},
		{"three participants", strings.Join([]string{
			"[12/1/23, 10:30:45 AM] John: hey",
			"[12/1/23, 10:31:02 AM] Jane: hi",
			"[12/1/23, 10:31:30 AM] Jim: yo",
		}, "\n")},
		{"invalid json", `{"messages": [}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.in), cfg)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err=%v, want *ParseError", err)
			}
		})
	}
}
