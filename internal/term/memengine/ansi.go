package memengine

import "regexp"

// Escape sequence recognizers. OSC sequences terminate with BEL or ST,
// CSI sequences with a final byte in @-~, and the remainder covers
// plain escapes in their ECMA-48 form: ESC, optional intermediates,
// final byte. Charset designations such as ESC(B fall in the last
// group.
var (
	oscPattern   = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
	csiPattern   = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	escPattern   = regexp.MustCompile(`\x1b[ -/]*[0-~]`)
	titlePattern = regexp.MustCompile(`\x1b\](?:0|2);([^\x07\x1b]*)(?:\x07|\x1b\\)`)
)

// extractTitles returns the window titles set by OSC 0 and OSC 2
// sequences in data, in order of appearance.
func extractTitles(data string) []string {
	matches := titlePattern.FindAllStringSubmatch(data, -1)
	if len(matches) == 0 {
		return nil
	}
	titles := make([]string, 0, len(matches))
	for _, m := range matches {
		titles = append(titles, m[1])
	}
	return titles
}

// stripSequences removes ANSI escape sequences from data, leaving the
// printable text and control characters the write pipeline interprets.
func stripSequences(data string) string {
	data = oscPattern.ReplaceAllString(data, "")
	data = csiPattern.ReplaceAllString(data, "")
	data = escPattern.ReplaceAllString(data, "")
	return data
}
