// Package config loads engine configuration overrides from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chatlytics/chatlytics/engine"
)

// File is the YAML override surface for engine thresholds and weights.
// Pointer fields distinguish "absent" from zero; environment variables in the
// file are expanded before parsing.
type File struct {
	MinMessages            *int            `yaml:"min_messages"`
	MaxMessages            *int            `yaml:"max_messages"`
	MaxMessagesForInsights *int            `yaml:"max_messages_for_insights"`
	ResponseGapMinutes     *int            `yaml:"response_gap_minutes"`
	ConversationGapMinutes *int            `yaml:"conversation_gap_minutes"`
	MinTokenLength         *int            `yaml:"min_token_length"`
	ExtraStopwords         []string        `yaml:"extra_stopwords"`
	TimestampLayouts       []string        `yaml:"timestamp_layouts"`
	Weights                *engine.Weights `yaml:"weights"`
}

// LoadEngine returns the engine defaults, overridden by the YAML file at
// path when one is given.
func LoadEngine(path string) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &f); err != nil {
		return engine.Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if f.MinMessages != nil {
		cfg.MinMessages = *f.MinMessages
	}
	if f.MaxMessages != nil {
		cfg.MaxMessages = *f.MaxMessages
	}
	if f.MaxMessagesForInsights != nil {
		cfg.MaxMessagesForInsights = *f.MaxMessagesForInsights
	}
	if f.ResponseGapMinutes != nil {
		cfg.ResponseGap = time.Duration(*f.ResponseGapMinutes) * time.Minute
	}
	if f.ConversationGapMinutes != nil {
		cfg.ConversationGap = time.Duration(*f.ConversationGapMinutes) * time.Minute
	}
	if f.MinTokenLength != nil {
		cfg.MinTokenLength = *f.MinTokenLength
	}
	for _, w := range f.ExtraStopwords {
		cfg.Stopwords[w] = struct{}{}
	}
	if len(f.TimestampLayouts) > 0 {
		cfg.TimestampLayouts = f.TimestampLayouts
	}
	if f.Weights != nil {
		cfg.Weights = *f.Weights
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("invalid config file: %w", err)
	}
	return cfg, nil
}
