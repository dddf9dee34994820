package engine

import "fmt"

// ParseError reports an unrecoverable transcript format failure: empty input,
// no recognizable message lines, or a participant count other than two. No
// partial Conversation is produced alongside it.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse transcript: " + e.Reason
}

// InsufficientDataError reports that fewer messages were parsed than the
// configured minimum. Needed tells the caller how many more are required.
type InsufficientDataError struct {
	Got int
	Min int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d messages parsed, need at least %d", e.Got, e.Min)
}

// Needed returns how many additional messages would satisfy the minimum.
func (e *InsufficientDataError) Needed() int {
	return e.Min - e.Got
}

// TooLargeError reports that the conversation exceeds the configured message
// cap. It is returned before any analysis work begins.
type TooLargeError struct {
	Count int
	Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("conversation too large: %d messages exceeds cap of %d", e.Count, e.Limit)
}
