package engine

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"stopwords and punctuation", "Hey, how are you?", []string{"hey"}},
		{"case folding", "LOVE Amazing DAY", []string{"love", "amazing", "day"}},
		{"short tokens dropped", "go to gym now", []string{"gym", "now"}},
		{"apostrophes trimmed", "'night don't", []string{"night", "don't"}},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Tokenize(tc.in, cfg)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tokenize(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractEmojis(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"plain text", "hello world", nil},
		{"ordered", "I ❤️ you 😍😍", []string{"❤", "😍", "😍"}},
		{"variation selector dropped", "☹️", []string{"☹"}},
		{"mixed blocks", "🚀 launch 🎉", []string{"🚀", "🎉"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractEmojis(tc.in)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractEmojis(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTokenize_DeterministicForSameConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	in := "Love this amazing day, truly wonderful stuff!"
	first := Tokenize(in, cfg)
	for i := 0; i < 10; i++ {
		if got := Tokenize(in, cfg); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Tokenize=%v, want %v", i, got, first)
		}
	}
}
