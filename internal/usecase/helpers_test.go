package usecase

import (
	"io"
	"log/slog"
	"strings"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stripTags is a minimal sanitizer for tests.
type stripTags struct{}

func (stripTags) Sanitize(s string) string {
	for {
		i := strings.Index(s, "<")
		if i < 0 {
			return s
		}
		j := strings.Index(s[i:], ">")
		if j < 0 {
			return s
		}
		s = s[:i] + s[i+j+1:]
	}
}
