package term

import (
	"regexp"
	"strings"
	"sync"
)

// SearchOptions controls how a search term is matched.
type SearchOptions struct {
	// CaseSensitive requires an exact-case match.
	CaseSensitive bool

	// Regex interprets the term as a regular expression instead of a
	// literal substring.
	Regex bool
}

// SearchAddon provides incremental search over an engine's buffer.
// Repeated FindNext calls with the same term advance through matches,
// wrapping to the top once the bottom is reached.
type SearchAddon struct {
	mu       sync.Mutex
	eng      Engine
	lastTerm string
	lastLine int
}

// NewSearchAddon creates an inactive search addon. Load it with
// Engine.LoadAddon before use.
func NewSearchAddon() *SearchAddon {
	return &SearchAddon{lastLine: -1}
}

// Activate implements Addon.
func (a *SearchAddon) Activate(e Engine) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.eng = e
	a.lastTerm = ""
	a.lastLine = -1
	return nil
}

// Dispose implements Addon.
func (a *SearchAddon) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.eng = nil
}

// FindNext searches the buffer for term, starting after the previous
// match when the term is unchanged. It returns false when no line
// matches, the term is empty, the pattern is invalid, or the addon is
// not active.
func (a *SearchAddon) FindNext(term string, opts SearchOptions) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.eng == nil || term == "" {
		return false
	}
	if term != a.lastTerm {
		a.lastTerm = term
		a.lastLine = -1
	}

	match, err := compileMatcher(term, opts)
	if err != nil {
		return false
	}

	buf := a.eng.Buffer()
	n := buf.Length()
	if n == 0 {
		return false
	}

	start := a.lastLine + 1
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if match(buf.Line(idx)) {
			a.lastLine = idx
			return true
		}
	}
	return false
}

// MatchLine returns the buffer line index of the last successful
// FindNext, or -1 when there has been none.
func (a *SearchAddon) MatchLine() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastLine
}

// compileMatcher builds a line predicate for the term and options.
func compileMatcher(term string, opts SearchOptions) (func(string) bool, error) {
	if opts.Regex {
		expr := term
		if !opts.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	}

	if opts.CaseSensitive {
		return func(line string) bool {
			return strings.Contains(line, term)
		}, nil
	}

	lower := strings.ToLower(term)
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), lower)
	}, nil
}
