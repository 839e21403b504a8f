package conformance

import "strings"

const (
	expectMarker = "// expect: "
	errorMarker  = "// error: "
)

// Script is a source file together with the output it is expected to
// produce. Each "// expect: " comment names one line of program output and
// each "// error: " comment one diagnostic line, in order.
type Script struct {
	Source string
	Output []string
	Errors []string
}

func ParseScript(source string) *Script {
	s := &Script{Source: source}
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimRight(line, "\r")
		if _, want, ok := strings.Cut(line, expectMarker); ok {
			s.Output = append(s.Output, want)
		} else if _, want, ok := strings.Cut(line, errorMarker); ok {
			s.Errors = append(s.Errors, want)
		}
	}
	return s
}

// lines splits captured output into lines, dropping the final newline.
func lines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
