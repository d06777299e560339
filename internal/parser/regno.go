package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// regNoPattern finds registration ids inside free text. Letters are matched
// case-insensitively and uppercased by CanonicalRegNo.
const regNoPattern = `[A-Za-z]{2,5}/[A-Za-z]{2,5}/\d{2}/\d{1,4}(?:/\d{1,4})?`

var (
	regNoInText = regexp.MustCompile(`\b` + regNoPattern + `\b`)
	regNoWire   = regexp.MustCompile(`^[A-Z]{2,5}/[A-Z]{2,5}/\d{2}/\d{1,4}(?:/\d{1,4})?$`)
)

// CanonicalRegNo uppercases id and strips all whitespace.
func CanonicalRegNo(id string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, id)
}

// ValidRegNo reports whether a canonical id may appear in a parse result: at
// least three segments, a numeric last segment, at least eight characters and
// the ORG/DEPT/YY/SEQ[/SEQ] wire grammar.
func ValidRegNo(id string) bool {
	if len(id) < 8 {
		return false
	}
	segments := strings.Split(id, "/")
	if len(segments) < 3 {
		return false
	}
	last := segments[len(segments)-1]
	if last == "" {
		return false
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return false
		}
	}
	return regNoWire.MatchString(id)
}

// FindRegNos returns the byte offsets of every registration id in line.
func FindRegNos(line string) [][]int {
	return regNoInText.FindAllStringIndex(line, -1)
}
