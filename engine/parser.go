package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Format identifies a supported transcript shape. It is decided once by
// sniffing (or supplied by the caller) and dispatched on, instead of probing
// the input repeatedly throughout parsing.
type Format int

const (
	// FormatAuto sniffs the input: a leading '{' or valid JSON starting with
	// '[' selects FormatJSON, everything else FormatText.
	FormatAuto Format = iota
	// FormatText is a line-based export with a timestamp prefix per message.
	FormatText
	// FormatJSON is a JSON array of {sender, timestamp, content} objects, or
	// an object wrapping such an array under "messages".
	FormatJSON
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Parse converts raw transcript bytes into a Conversation, sniffing the
// format. It fails with *ParseError when the input is empty, no line or
// element is recognizable, or the participant count is not exactly two.
func Parse(raw []byte, cfg Config) (Conversation, error) {
	return ParseFormat(raw, FormatAuto, cfg)
}

// ParseFormat is Parse with an explicit format hint.
func ParseFormat(raw []byte, format Format, cfg Config) (Conversation, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(trimmed) == 0 {
		return Conversation{}, &ParseError{Reason: "empty input"}
	}
	if format == FormatAuto {
		format = sniffFormat(trimmed)
	}

	var (
		msgs  []Message
		diags Diagnostics
		err   error
	)
	switch format {
	case FormatJSON:
		msgs, diags, err = parseJSONMessages(trimmed, cfg)
		if err != nil {
			return Conversation{}, err
		}
	default:
		msgs, diags = parseTextLines(trimmed, cfg)
	}

	return buildConversation(msgs, diags)
}

func sniffFormat(trimmed []byte) Format {
	switch trimmed[0] {
	case '{':
		return FormatJSON
	case '[':
		// Bracketed text exports also open with '['. Only treat the input as
		// JSON when the whole buffer actually is JSON.
		if json.Valid(trimmed) {
			return FormatJSON
		}
	}
	return FormatText
}

type lineKind int

const (
	lineContinuation lineKind = iota
	lineMessage
	lineSystem
)

var (
	// [12/1/23, 10:30:45 AM] Sender: text, optionally preceded by a
	// directional mark as emitted by iOS exports.
	bracketMessageRe = regexp.MustCompile(`^[\x{200e}\x{200f}]?\[(?P<ts>[^\]]*\d[^\]]*)\]\s*(?P<sender>[^:]+?):\s?(?P<msg>.*)$`)
	bracketSystemRe  = regexp.MustCompile(`^[\x{200e}\x{200f}]?\[(?P<ts>[^\]]*\d[^\]]*)\]\s*(?P<msg>.*)$`)

	// 12/1/23, 10:30 AM - Sender: text (Android export, no brackets).
	dashMessageRe = regexp.MustCompile(`^(?P<ts>\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4},?\s+\d{1,2}:\d{2}(?::\d{2})?\s*(?:[APap]\.?[Mm]\.?)?)\s*-\s*(?P<sender>[^:]+?):\s?(?P<msg>.*)$`)
	dashSystemRe  = regexp.MustCompile(`^(?P<ts>\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4},?\s+\d{1,2}:\d{2}(?::\d{2})?\s*(?:[APap]\.?[Mm]\.?)?)\s*-\s*(?P<msg>.+)$`)

	// 2023-12-01T10:30:45 - Sender: text (ISO-prefixed text export).
	isoMessageRe = regexp.MustCompile(`^(?P<ts>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+\-]\d{2}:?\d{2})?)\s*-\s*(?P<sender>[^:]+?):\s?(?P<msg>.*)$`)
)

// matchLine classifies a single line. Message patterns are tried before the
// system patterns, which are a strict superset.
func matchLine(line string) (sender, tsRaw, body string, kind lineKind) {
	for _, re := range []*regexp.Regexp{bracketMessageRe, dashMessageRe, isoMessageRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[2], m[1], m[3], lineMessage
		}
	}
	for _, re := range []*regexp.Regexp{bracketSystemRe, dashSystemRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			return "", m[1], m[2], lineSystem
		}
	}
	return "", "", "", lineContinuation
}

func parseTextLines(raw []byte, cfg Config) ([]Message, Diagnostics) {
	var (
		msgs  []Message
		diags Diagnostics
		cur   *Message
	)
	flush := func() {
		if cur != nil {
			msgs = append(msgs, *cur)
			cur = nil
		}
	}

	// The transcript is already fully in memory, so lines are split directly.
	// A scanner would impose its own line-length cap and stop early on inputs
	// with one pathological line, silently dropping everything after it.
	for _, rawLine := range bytes.Split(raw, []byte("\n")) {
		line := strings.TrimRight(string(rawLine), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		sender, tsRaw, body, kind := matchLine(line)
		switch kind {
		case lineMessage:
			flush()
			ts, ok := parseTimestamp(tsRaw, cfg.TimestampLayouts)
			if !ok {
				// Malformed timestamp on an otherwise well-formed line:
				// inherit the previous message's timestamp, or drop the line
				// when there is nothing to inherit.
				if len(msgs) == 0 {
					diags.SkippedLines++
					continue
				}
				ts = msgs[len(msgs)-1].Timestamp
				diags.InheritedTimestamps++
			}
			cur = &Message{
				Sender:    strings.TrimSpace(sender),
				Timestamp: ts,
				Text:      strings.TrimSpace(body),
			}
		case lineSystem:
			flush()
			diags.SystemLines++
		default:
			// Continuation of a multi-line message.
			if cur == nil {
				diags.SkippedLines++
				continue
			}
			cur.Text += "\n" + line
		}
	}
	flush()
	return msgs, diags
}

type jsonTranscript struct {
	Messages []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Sender      string          `json:"sender"`
	SenderName  string          `json:"sender_name"`
	Timestamp   json.RawMessage `json:"timestamp"`
	TimestampMS int64           `json:"timestamp_ms"`
	CreatedAt   string          `json:"created_at"`
	Content     string          `json:"content"`
	Text        string          `json:"text"`
}

func parseJSONMessages(raw []byte, cfg Config) ([]Message, Diagnostics, error) {
	var items []jsonMessage
	if raw[0] == '{' {
		var t jsonTranscript
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, Diagnostics{}, &ParseError{Reason: "invalid JSON transcript: " + err.Error()}
		}
		items = t.Messages
	} else {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, Diagnostics{}, &ParseError{Reason: "invalid JSON transcript: " + err.Error()}
		}
	}

	var (
		msgs  []Message
		diags Diagnostics
	)
	for _, it := range items {
		sender := strings.TrimSpace(it.Sender)
		if sender == "" {
			sender = strings.TrimSpace(it.SenderName)
		}
		ts, ok := jsonTimestamp(it, cfg)
		if sender == "" || !ok {
			// Missing fields skip the element, never fail the parse.
			diags.SkippedElements++
			continue
		}
		text := it.Content
		if text == "" {
			text = it.Text
		}
		msgs = append(msgs, Message{
			Sender:    sender,
			Timestamp: ts,
			Text:      strings.TrimSpace(text),
		})
	}
	return msgs, diags, nil
}

// jsonTimestamp accepts epoch seconds (integer or fractional), epoch
// milliseconds under timestamp_ms, or a string in any configured layout.
func jsonTimestamp(it jsonMessage, cfg Config) (time.Time, bool) {
	if it.TimestampMS > 0 {
		return time.UnixMilli(it.TimestampMS).UTC(), true
	}
	if len(it.Timestamp) > 0 {
		var epoch float64
		if err := json.Unmarshal(it.Timestamp, &epoch); err == nil && epoch > 0 {
			// Some exports put epoch milliseconds in the plain timestamp
			// field. A second count never reaches 1e12 before the year
			// 33658, so anything that large is milliseconds.
			if epoch >= 1e12 {
				return time.UnixMilli(int64(epoch)).UTC(), true
			}
			sec := int64(epoch)
			ns := int64((epoch - float64(sec)) * 1e9)
			return time.Unix(sec, ns).UTC(), true
		}
		var s string
		if err := json.Unmarshal(it.Timestamp, &s); err == nil {
			if t, ok := parseTimestamp(s, cfg.TimestampLayouts); ok {
				return t, true
			}
		}
	}
	if it.CreatedAt != "" {
		if t, ok := parseTimestamp(it.CreatedAt, cfg.TimestampLayouts); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

var mediaPlaceholders = map[string]struct{}{
	"<media omitted>": {},
	"[media omitted]": {},
	"[image]":         {},
	"[video]":         {},
	"[audio]":         {},
	"[sticker]":       {},
	"[document]":      {},
	"<attached>":      {},
	"<attachment>":    {},
}

func isMediaPlaceholder(text string) bool {
	t := strings.ToLower(strings.Trim(strings.TrimSpace(text), "‎‏"))
	if _, ok := mediaPlaceholders[t]; ok {
		return true
	}
	return strings.HasSuffix(t, "omitted") || strings.HasSuffix(t, "omitted>")
}

func buildConversation(msgs []Message, diags Diagnostics) (Conversation, error) {
	if len(msgs) == 0 {
		return Conversation{}, &ParseError{Reason: "no recognizable message lines"}
	}

	for i := range msgs {
		msgs[i].index = i
		msgs[i].IsMedia = isMediaPlaceholder(msgs[i].Text)
		if !msgs[i].IsMedia {
			msgs[i].Emojis = ExtractEmojis(msgs[i].Text)
		}
	}

	// Non-decreasing timestamps; equal timestamps keep original line order.
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	seen := make(map[string]struct{}, 2)
	var participants []string
	for _, m := range msgs {
		if _, ok := seen[m.Sender]; !ok {
			seen[m.Sender] = struct{}{}
			participants = append(participants, m.Sender)
		}
	}
	if len(participants) != 2 {
		return Conversation{}, &ParseError{
			Reason: fmt.Sprintf("expected exactly 2 participants, found %d", len(participants)),
		}
	}

	return Conversation{
		Participants: [2]string{participants[0], participants[1]},
		Messages:     msgs,
		Diagnostics:  diags,
	}, nil
}
