package sanitizer

import (
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func SanitizeHolder(input string) string {
	return Pipeline{TrimAndNormalize}.Apply(input)
}

func SanitizeFormat(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return strings.TrimPrefix(s, ".") },
	}
	return p.Apply(input)
}

// SanitizeFilename trims name and drops a trailing ".format" so that
// "week.csv" and "week" both end up as "week".
func SanitizeFilename(name, format string) string {
	p := Pipeline{
		strings.TrimSpace,
		func(s string) string {
			ext := "." + SanitizeFormat(format)
			if ext != "." && strings.HasSuffix(strings.ToLower(s), ext) {
				return s[:len(s)-len(ext)]
			}
			return s
		},
	}
	return p.Apply(name)
}
