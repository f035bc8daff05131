// Package minify provides the built-in pack text transform: it strips
// comments and blank lines from Python source without touching semantics.
package minify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pypack-dev/pypack/pkg/pysrc"
)

// Minify removes comments and blank lines from source. The obfuscate flag
// is part of the transform contract but identifier obfuscation is not
// implemented here; hosts that need it plug in their own transform. A set
// flag is noted at debug level so the output is never silently weaker than
// asked for.
//
// Comment removal is span-based over the parse tree, so comment-looking
// text inside string literals survives.
func Minify(source string, obfuscate bool) (string, error) {
	if obfuscate {
		slog.Debug("identifier obfuscation not implemented, minifying only")
	}

	tree, err := pysrc.Parse(context.Background(), []byte(source))
	if err != nil {
		return "", fmt.Errorf("minify: %w", err)
	}
	defer tree.Close()

	stripped := removeSpans(source, tree.Comments())

	return dropBlankLines(stripped), nil
}

// removeSpans deletes the given byte ranges from source, also eating any
// spaces or tabs immediately before each range so `x = 1  # note` leaves
// no trailing whitespace behind.
func removeSpans(source string, spans []pysrc.Span) string {
	if len(spans) == 0 {
		return source
	}

	var out strings.Builder

	out.Grow(len(source))

	cursor := uint(0)

	for _, span := range spans {
		if span.Start < cursor || span.End > uint(len(source)) {
			continue
		}

		keep := source[cursor:span.Start]
		out.WriteString(strings.TrimRight(keep, " \t"))
		cursor = span.End
	}

	out.WriteString(source[cursor:])

	return out.String()
}

// dropBlankLines removes lines that are empty or whitespace-only. Blank
// lines carry no meaning for the interpreter; removing them keeps the
// bundle compact.
func dropBlankLines(source string) string {
	lines := strings.Split(source, "\n")
	kept := lines[:0]

	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}

	result := strings.Join(kept, "\n")
	if result != "" && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return result
}
