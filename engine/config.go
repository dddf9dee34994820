package engine

import (
	"errors"
	"time"
)

// Weights are the named coefficients of the composite scores. Each group is
// normalized over its own sum, so callers may supply any positive values.
type Weights struct {
	// Affection score inputs.
	AffectionPositiveRatio  float64 `json:"affection_positive_ratio" yaml:"affection_positive_ratio"`
	AffectionLexiconRate    float64 `json:"affection_lexicon_rate" yaml:"affection_lexicon_rate"`
	AffectionResponsiveness float64 `json:"affection_responsiveness" yaml:"affection_responsiveness"`

	// Compatibility index inputs.
	CompatibilityBalance            float64 `json:"compatibility_balance" yaml:"compatibility_balance"`
	CompatibilityTurnSymmetry       float64 `json:"compatibility_turn_symmetry" yaml:"compatibility_turn_symmetry"`
	CompatibilitySentimentAlignment float64 `json:"compatibility_sentiment_alignment" yaml:"compatibility_sentiment_alignment"`
	CompatibilityResponseSymmetry   float64 `json:"compatibility_response_symmetry" yaml:"compatibility_response_symmetry"`
}

// Config is the full configuration surface of the engine. It is threaded
// explicitly through every component call and treated as immutable for the
// duration of a run; the engine never reads ambient/global state.
type Config struct {
	// MinMessages is the minimum parsed message count below which analysis is
	// refused with InsufficientDataError.
	MinMessages int

	// MaxMessages is the hard cap above which analysis is refused with
	// TooLargeError before any computation starts.
	MaxMessages int

	// MaxMessagesForInsights bounds how many of the most recent messages feed
	// the numeric insight payload.
	MaxMessagesForInsights int

	// ResponseGap is the longest sender switch still counted as a response.
	// Larger silences feed gap/streak detection instead, so overnight quiet
	// does not skew responsiveness metrics.
	ResponseGap time.Duration

	// ConversationGap is the idle time after which the next message counts as
	// opening a new conversation.
	ConversationGap time.Duration

	// LateNightStart/LateNightEnd bound the late-night hour window
	// [start, end) used for the late-night message count.
	LateNightStart int
	LateNightEnd   int

	// MinTokenLength drops tokens shorter than this many runes.
	MinTokenLength int

	// TimestampLayouts is the ordered list of time layouts tried against a
	// timestamp prefix; the first match wins, so precedence between ambiguous
	// formats (day-first vs month-first) is explicit configuration.
	TimestampLayouts []string

	Stopwords        map[string]struct{}
	SentimentLexicon map[string]float64
	EmojiSentiment   map[string]float64
	AffectionWords   map[string]struct{}
	AffectionEmojis  map[string]struct{}
	StarterWords     map[string]struct{}

	Weights Weights
}

// DefaultConfig returns the engine defaults: thresholds and lexicons suitable
// for English-language WhatsApp/Instagram exports.
func DefaultConfig() Config {
	return Config{
		MinMessages:            10,
		MaxMessages:            100000,
		MaxMessagesForInsights: 1000,
		ResponseGap:            6 * time.Hour,
		ConversationGap:        30 * time.Minute,
		LateNightStart:         0,
		LateNightEnd:           4,
		MinTokenLength:         3,
		TimestampLayouts:       defaultTimestampLayouts(),
		Stopwords:              defaultStopwords(),
		SentimentLexicon:       defaultSentimentLexicon(),
		EmojiSentiment:         defaultEmojiSentiment(),
		AffectionWords:         defaultAffectionWords(),
		AffectionEmojis:        defaultAffectionEmojis(),
		StarterWords:           defaultStarterWords(),
		Weights: Weights{
			AffectionPositiveRatio:          0.4,
			AffectionLexiconRate:            0.4,
			AffectionResponsiveness:         0.2,
			CompatibilityBalance:            0.25,
			CompatibilityTurnSymmetry:       0.25,
			CompatibilitySentimentAlignment: 0.25,
			CompatibilityResponseSymmetry:   0.25,
		},
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.MinMessages < 1 {
		return errors.New("MinMessages must be >= 1")
	}
	if c.MaxMessages < c.MinMessages {
		return errors.New("MaxMessages must be >= MinMessages")
	}
	if c.MaxMessagesForInsights < 1 {
		return errors.New("MaxMessagesForInsights must be >= 1")
	}
	if c.ResponseGap <= 0 {
		return errors.New("ResponseGap must be positive")
	}
	if c.ConversationGap <= 0 {
		return errors.New("ConversationGap must be positive")
	}
	if c.LateNightStart < 0 || c.LateNightStart > 23 || c.LateNightEnd < 0 || c.LateNightEnd > 24 {
		return errors.New("late-night hours must fall within a day")
	}
	if c.MinTokenLength < 1 {
		return errors.New("MinTokenLength must be >= 1")
	}
	if len(c.TimestampLayouts) == 0 {
		return errors.New("TimestampLayouts is empty")
	}
	if sumAffectionWeights(c.Weights) <= 0 || sumCompatibilityWeights(c.Weights) <= 0 {
		return errors.New("composite weights must sum to a positive value")
	}
	return nil
}

func sumAffectionWeights(w Weights) float64 {
	return w.AffectionPositiveRatio + w.AffectionLexiconRate + w.AffectionResponsiveness
}

func sumCompatibilityWeights(w Weights) float64 {
	return w.CompatibilityBalance + w.CompatibilityTurnSymmetry +
		w.CompatibilitySentimentAlignment + w.CompatibilityResponseSymmetry
}
