package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// name matches a bare or quoted identifier of word characters, dots and hyphens
const name = `['"]?([\w.-]+)['"]?`

type rule struct {
	action  Action
	pattern *regexp.Regexp
	extract func(m []string) Intent
}

// Translator maps free text onto filesystem intents. Rules are tried in
// order and the first match wins; overlapping phrasings are not
// disambiguated.
type Translator struct {
	rules []rule
}

// NewTranslator builds the translator with the create, delete, move rule order
func NewTranslator() *Translator {
	return &Translator{rules: []rule{
		{
			action:  CreateFolder,
			pattern: regexp.MustCompile(`(create|make).*(folder|directory)\s(?:named|called)?\s*` + name),
			extract: func(m []string) Intent {
				return Intent{
					Action: CreateFolder,
					Args:   []string{m[3]},
					Label:  fmt.Sprintf("Create folder '%s'", m[3]),
				}
			},
		},
		{
			// Whether the target is a file or a directory is only known at
			// execution time, so the label stays type-agnostic.
			action:  Delete,
			pattern: regexp.MustCompile(`(delete|remove).*(file|folder|directory)\s(?:named|called)?\s*` + name),
			extract: func(m []string) Intent {
				return Intent{
					Action: Delete,
					Args:   []string{m[3]},
					Label:  fmt.Sprintf("Delete '%s'", m[3]),
				}
			},
		},
		{
			action:  Move,
			pattern: regexp.MustCompile(`move\s*` + name + `\s*to\s*` + name),
			extract: func(m []string) Intent {
				return Intent{
					Action: Move,
					Args:   []string{m[1], m[2]},
					Label:  fmt.Sprintf("Move '%s' to '%s'", m[1], m[2]),
				}
			},
		},
	}}
}

// Translate lower-cases and trims text, then returns the first matching
// rule's intent. Unmatched text yields an Intent with Action None.
func (t *Translator) Translate(text string) Intent {
	text = strings.ToLower(strings.TrimSpace(text))

	for _, r := range t.rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			return r.extract(m)
		}
	}
	return Intent{Action: None}
}

// Rules returns the actions in evaluation order
func (t *Translator) Rules() []Action {
	actions := make([]Action, len(t.rules))
	for i, r := range t.rules {
		actions[i] = r.action
	}
	return actions
}
