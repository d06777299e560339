package textract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var dashFolder = strings.NewReplacer(
	"\u2010", "-", "\u2011", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-", "\u2212", "-",
	"\u00A0", " ", "\u2007", " ", "\u202F", " ", "\t", " ",
	"\r\n", "\n", "\r", "\n",
	"\u200B", "", "\uFEFF", "",
)

// CleanText applies NFKC normalization, folds dash and space variants, collapses
// runs of spaces and drops blank lines. Line structure is otherwise preserved.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = dashFolder.Replace(s)

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
