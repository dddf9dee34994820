package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// emojiRanges covers the common emoji blocks: smileys, symbols & pictographs,
// transport, supplemental symbols, regional indicators, and the legacy
// dingbat/misc-symbol span. Sorted by start rune.
var emojiRanges = [][2]rune{
	{0x2600, 0x27BF},   // misc symbols + dingbats (hearts, sparkles, frowns)
	{0x1F1E6, 0x1F1FF}, // regional indicators
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F900, 0x1F9FF}, // supplemental symbols & pictographs
	{0x1FA70, 0x1FAFF}, // extended-A
}

func isEmojiRune(r rune) bool {
	for _, rng := range emojiRanges {
		if r < rng[0] {
			return false
		}
		if r <= rng[1] {
			return true
		}
	}
	return false
}

// ExtractEmojis returns the emoji code points of text in order of appearance,
// one string per code point. Variation selectors and joiners are dropped, so
// styled and plain forms of the same emoji extract identically.
func ExtractEmojis(text string) []string {
	var out []string
	for _, r := range text {
		if isEmojiRune(r) {
			out = append(out, string(r))
		}
	}
	return out
}

// Tokenize lowercases text, strips punctuation and emoji, and returns the
// remaining words minus stopwords and tokens shorter than MinTokenLength
// runes. Deterministic for a fixed Config.
func Tokenize(text string, cfg Config) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.Trim(w, "'")
		if utf8.RuneCountInString(w) < cfg.MinTokenLength {
			continue
		}
		if _, stop := cfg.Stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}
