package lexicon

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/camelcase"
)

var (
	underscoreRun = regexp.MustCompile(`_+`)
	digitRun      = regexp.MustCompile(`\p{Nd}+`)
)

// Split breaks a RAPID identifier into lower-case word tokens.
//
// Underscores and digit runs separate chunks, each chunk is camel-case
// segmented (an acronym gives up its last capital to a following word, so
// XMLParser yields xml and parser) and the axis spellings xaxis, yaxis and
// zaxis become the axis letter followed by "axis".
func Split(name string) []string {
	if name == "" {
		return nil
	}

	tokens := make([]string, 0, 4)
	for _, part := range underscoreRun.Split(name, -1) {
		if part == "" {
			continue
		}
		for _, chunk := range strings.Split(digitRun.ReplaceAllString(part, "_"), "_") {
			if chunk == "" {
				continue
			}
			for _, word := range camelWords(chunk) {
				word = strings.ToLower(word)
				if strings.TrimSpace(word) == "" {
					continue
				}
				switch word {
				case "xaxis", "yaxis", "zaxis":
					tokens = append(tokens, word[:1], "axis")
				default:
					tokens = append(tokens, word)
				}
			}
		}
	}
	return tokens
}

// camelWords segments chunk at lower-to-upper transitions only.
// camelcase.Split also cuts where uncased scripts or title-case letters
// meet other letters, so every segment that does not begin with an upper
// case letter is glued back onto the one before it.
func camelWords(chunk string) []string {
	var words []string
	for _, seg := range camelcase.Split(chunk) {
		r, _ := utf8.DecodeRuneInString(seg)
		if len(words) > 0 && !unicode.IsUpper(r) {
			words[len(words)-1] += seg
			continue
		}
		words = append(words, seg)
	}
	return words
}
