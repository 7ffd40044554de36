package namer

import (
	"slices"
	"strings"
	"testing"
)

func TestSuggest(t *testing.T) {
	t.Run("returns an adjective-noun pair", func(t *testing.T) {
		key := Suggest(nil)

		parts := strings.SplitN(key, "-", 2)
		if len(parts) != 2 {
			t.Fatalf("Suggest() = %q, want adjective-noun", key)
		}
		if !slices.Contains(adjectives, parts[0]) {
			t.Errorf("adjective %q not in word list", parts[0])
		}
		if !slices.Contains(nouns, parts[1]) {
			t.Errorf("noun %q not in word list", parts[1])
		}
	})

	t.Run("avoids taken keys", func(t *testing.T) {
		taken := []string{"web", "build"}
		for i := 0; i < 50; i++ {
			if key := Suggest(taken); key == "web" || key == "build" {
				t.Fatalf("Suggest() returned taken key %q", key)
			}
		}
	})

	t.Run("falls back when every pair is taken", func(t *testing.T) {
		taken := make([]string, 0, len(adjectives)*len(nouns))
		for _, a := range adjectives {
			for _, n := range nouns {
				taken = append(taken, a+"-"+n)
			}
		}

		key := Suggest(taken)
		if !strings.HasPrefix(key, "term-") {
			t.Errorf("Suggest() = %q, want term- fallback", key)
		}
		for _, k := range taken {
			if key == k {
				t.Errorf("fallback key %q collides", key)
			}
		}
	})
}
