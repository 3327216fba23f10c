package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var splitWordsPattern = regexp.MustCompile(`[_\-.\s]+`)

// Words splits an identifier into its words. It splits on underscores,
// dashes, dots, whitespace and camelCase boundaries, so "agreeToTerms",
// "agree_to_terms" and "Agree-To-Terms" all produce the same three words.
func Words(name string) []string {
	if name == "" {
		return nil
	}

	var words []string
	for _, chunk := range splitWordsPattern.Split(name, -1) {
		if chunk == "" {
			continue
		}
		words = append(words, strings.Fields(splitCamel(chunk))...)
	}
	return words
}

// Kebab converts an identifier into its lowercase, dash separated form.
func Kebab(name string) string {
	words := Words(name)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// Label converts a field name into a human-friendly label ("agreeToTerms" ->
// "Agree To Terms").
func Label(name string) string {
	words := Words(name)
	for i, word := range words {
		words[i] = titleCase(word)
	}
	return strings.Join(words, " ")
}

// LowerCamel lowercases the leading word of a Go identifier ("EmailAddress" ->
// "emailAddress", "URL" -> "url").
func LowerCamel(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && isUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == len(runes):
		return strings.ToLower(name)
	case upper > 1:
		// "URLPath": keep the P uppercase as the start of the next word.
		upper--
	}
	return strings.ToLower(string(runes[:upper])) + string(runes[upper:])
}

func splitCamel(input string) string {
	runes := []rune(input)
	var out strings.Builder
	for i, r := range runes {
		if i > 0 && isBoundary(runes, i) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(runes []rune, index int) bool {
	prev, r := runes[index-1], runes[index]
	if isLower(prev) && isUpper(r) {
		return true
	}
	if isLetter(prev) && isDigit(r) || isDigit(prev) && isLetter(r) {
		return true
	}
	// Acronym followed by a word: "HTTPServer" -> "HTTP Server".
	return isUpper(prev) && isUpper(r) && index+1 < len(runes) && isLower(runes[index+1])
}

func isUpper(r rune) bool  { return unicode.IsUpper(r) }
func isLower(r rune) bool  { return unicode.IsLower(r) }
func isDigit(r rune) bool  { return unicode.IsDigit(r) }
func isLetter(r rune) bool { return unicode.IsLetter(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToTitle(first)) + lower[size:]
}
