package app

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// placeholderRowsRegex matches two or more consecutive "($1, $2)" tuples
	// of a batched upsert.
	placeholderRowsRegex = regexp.MustCompile(`\(\$\d+(?:, ?\$\d+)*\)(?:, ?\(\$\d+(?:, ?\$\d+)*\))+`)
)

// formatDBQueryForTrace collapses whitespace and folds the placeholder rows of
// batched entity upserts into the first row plus a row count.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = placeholderRowsRegex.ReplaceAllStringFunc(normalized, foldPlaceholderRows)
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func foldPlaceholderRows(rows string) string {
	first, _, _ := strings.Cut(rows, ")")
	return first + ") /* " + strconv.Itoa(strings.Count(rows, "(")) + " rows */"
}
