package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// TrimWhitespace removes leading and trailing whitespace.
func (s *StringHelper) TrimWhitespace(str string) string {
	return strings.TrimSpace(str)
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
// Any letter that follows a non-letter starts a word, so "o'higgins" becomes
// "O'Higgins". A Caser keeps state, so one is built per call.
func (s *StringHelper) TitleCase(str string) string {
	titled := []rune(cases.Title(language.Spanish).String(str))

	for i := 1; i < len(titled); i++ {
		if !unicode.IsLetter(titled[i-1]) {
			titled[i] = unicode.ToUpper(titled[i])
		}
	}

	return string(titled)
}

// TruncateString truncates string to max runes.
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	runes := []rune(str)
	if len(runes) <= maxLength {
		return str
	}

	return string(runes[:maxLength]) + "..."
}
