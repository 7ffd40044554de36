// Package namer suggests owner keys for new terminals. Suggestions are
// adjective-noun pairs that read well in the sidebar; the user can always
// type their own key over them.
package namer

import (
	"math/rand"

	"github.com/google/uuid"
)

var adjectives = []string{
	"amber", "bold", "brisk", "calm", "clever", "crisp", "eager", "fleet",
	"keen", "lively", "mellow", "nimble", "quiet", "swift", "tidy", "vivid",
}

var nouns = []string{
	"aspen", "birch", "cedar", "comet", "delta", "ember", "fjord", "grove",
	"harbor", "island", "juniper", "maple", "meadow", "orchid", "ridge", "willow",
}

// maxAttempts bounds the random draws before falling back to a unique ID.
const maxAttempts = 32

// Suggest returns an owner key that is not already taken. When the word
// pairs are exhausted it falls back to an ID fragment, which cannot collide.
func Suggest(taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, key := range taken {
		used[key] = true
	}

	for i := 0; i < maxAttempts; i++ {
		key := adjectives[rand.Intn(len(adjectives))] + "-" + nouns[rand.Intn(len(nouns))]
		if !used[key] {
			return key
		}
	}

	return "term-" + uuid.NewString()[:8]
}
