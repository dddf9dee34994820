package engine

import "time"

// Message is one transmitted unit of a parsed conversation.
type Message struct {
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	IsMedia   bool      `json:"is_media"`
	Emojis    []string  `json:"emojis,omitempty"`

	// index is the original line/array position. It is the stable tie-break
	// when timestamps collide, so malformed input never reorders messages.
	index int
}

// Date returns the calendar day of the message as YYYY-MM-DD.
func (m Message) Date() string {
	return m.Timestamp.Format(dateLayout)
}

const dateLayout = "2006-01-02"

// Diagnostics counts input irregularities that were recovered locally during
// parsing. They are informational: a nonzero count never fails a parse on its
// own.
type Diagnostics struct {
	// SkippedLines counts text lines that matched no pattern and had no
	// previous message to attach to.
	SkippedLines int `json:"skipped_lines"`

	// SkippedElements counts JSON array elements missing a usable sender or
	// timestamp.
	SkippedElements int `json:"skipped_elements"`

	// SystemLines counts timestamped lines without a sender (joins, encryption
	// notices, subject changes). They carry no conversational content.
	SystemLines int `json:"system_lines"`

	// InheritedTimestamps counts messages whose own timestamp was
	// unparseable and which borrowed the previous message's timestamp.
	InheritedTimestamps int `json:"inherited_timestamps"`
}

// Conversation is the full parsed transcript: exactly two participants and
// their messages in chronological order. It is immutable once built; every
// analysis pass reads it concurrently without synchronization.
type Conversation struct {
	Participants [2]string   `json:"participants"`
	Messages     []Message   `json:"messages"`
	Diagnostics  Diagnostics `json:"diagnostics"`
}

// AnalysisResult is the immutable output bundle of one engine run. Field names
// are stable; downstream consumers (insight generation, charting, report
// export) treat it as read-only.
type AnalysisResult struct {
	Participants [2]string   `json:"participants"`
	Diagnostics  Diagnostics `json:"diagnostics"`

	Stats      StatsBundle     `json:"stats"`
	Sentiment  SentimentBundle `json:"sentiment"`
	Flow       FlowBundle      `json:"flow"`
	Composites CompositeBundle `json:"composites"`
}
