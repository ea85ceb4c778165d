package catalog

import (
	"strings"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

// action is one parsed IPS action line: its name and attributes in order.
type action struct {
	name  string
	attrs []attr
}

type attr struct {
	key, value string
}

// values returns every value of key in declaration order.
func (a action) values(key string) []string {
	var out []string
	for _, at := range a.attrs {
		if at.key == key {
			out = append(out, at.value)
		}
	}
	return out
}

// value returns the first value of key.
func (a action) value(key string) (string, bool) {
	for _, at := range a.attrs {
		if at.key == key {
			return at.value, true
		}
	}
	return "", false
}

// parseAction splits an action line such as
//
//	depend fmri=pkg:/library/zlib@1.2 type=require variant.arch=i386
//
// into its name and key=value attributes. Values may be double quoted;
// a backslash escapes the next character inside quotes.
func parseAction(line string) (action, error) {
	tokens, err := splitFields(line)
	if err != nil {
		return action{}, err
	}
	if len(tokens) == 0 {
		return action{}, errors.New(errors.ErrCodeInvalidCatalog, "empty action")
	}
	a := action{name: tokens[0]}
	for _, tok := range tokens[1:] {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			return action{}, errors.New(errors.ErrCodeInvalidCatalog, "malformed attribute %q in %s action", tok, a.name)
		}
		a.attrs = append(a.attrs, attr{key: key, value: value})
	}
	return a, nil
}

func splitFields(line string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n'):
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote || escaped {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "unterminated quote in action %q", line)
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
