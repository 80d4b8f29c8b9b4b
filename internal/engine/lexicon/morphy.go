package lexicon

import "strings"

// detachment rules applied when a surface form is missing from a word list,
// the same suffix table WordNet uses to reach a base form.
var detachments = []struct {
	suffix      string
	replacement string
}{
	{"s", ""},
	{"ses", "s"},
	{"xes", "x"},
	{"zes", "z"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"men", "man"},
	{"ies", "y"},
	{"es", "e"},
	{"es", ""},
	{"ed", "e"},
	{"ed", ""},
	{"ing", "e"},
	{"ing", ""},
	{"er", ""},
	{"est", ""},
	{"er", "e"},
	{"est", "e"},
}

// baseForms returns token followed by every distinct candidate base form.
func baseForms(token string) []string {
	forms := []string{token}
	seen := map[string]bool{token: true}
	for _, rule := range detachments {
		if !strings.HasSuffix(token, rule.suffix) {
			continue
		}
		stem := strings.TrimSuffix(token, rule.suffix)
		if len(stem) < 2 {
			continue
		}
		candidate := stem + rule.replacement
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		forms = append(forms, candidate)
	}
	return forms
}
