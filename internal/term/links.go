package term

import (
	"regexp"
	"strings"
)

// urlPattern matches http and https URLs up to the next whitespace.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// LinksAddon detects hyperlinks in an engine's buffer.
type LinksAddon struct {
	eng Engine
}

// NewLinksAddon creates an inactive links addon. Load it with
// Engine.LoadAddon before use.
func NewLinksAddon() *LinksAddon {
	return &LinksAddon{}
}

// Activate implements Addon.
func (a *LinksAddon) Activate(e Engine) error {
	a.eng = e
	return nil
}

// Dispose implements Addon.
func (a *LinksAddon) Dispose() {
	a.eng = nil
}

// LinksInLine returns the URLs found in buffer line i, left to right.
func (a *LinksAddon) LinksInLine(i int) []string {
	if a.eng == nil {
		return nil
	}
	buf := a.eng.Buffer()
	if i < 0 || i >= buf.Length() {
		return nil
	}
	return extractLinks(buf.Line(i))
}

// Links returns every URL in the buffer, oldest line first.
func (a *LinksAddon) Links() []string {
	if a.eng == nil {
		return nil
	}
	buf := a.eng.Buffer()
	var links []string
	for i := 0; i < buf.Length(); i++ {
		links = append(links, extractLinks(buf.Line(i))...)
	}
	return links
}

// extractLinks pulls URLs out of a line, trimming punctuation that
// terminal output commonly places right after a link.
func extractLinks(line string) []string {
	matches := urlPattern.FindAllString(line, -1)
	for i, m := range matches {
		matches[i] = strings.TrimRight(m, ".,;:!?)'\"")
	}
	return matches
}
