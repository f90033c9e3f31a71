package builtins

import "strings"

// lineStringSource is a parser.CommandSource over an in-memory string,
// used by Load/TryLoad to feed a loaded file's text to the compiler
// one line at a time the way the teacher's file-backed command sources
// do.
type lineStringSource struct {
	lines []string
	at    int
}

func lineSource(text string) *lineStringSource {
	return &lineStringSource{lines: strings.Split(text, "\n")}
}

func (s *lineStringSource) ReadNextLine() (string, bool) {
	if s.at >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.at]
	s.at++
	return line, true
}
