package authgate

import "strings"

// Scope is an ordered set of named permissions. Order is preserved for
// display; duplicates are dropped on parse.
type Scope []string

// ParseScope tokenizes a raw scope string. Tokens may be separated by
// whitespace or commas. An empty or absent raw scope is a valid empty
// scope, not an error.
func ParseScope(raw string) Scope {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})
	if len(fields) == 0 {
		return Scope{}
	}

	seen := make(map[string]struct{}, len(fields))
	scope := make(Scope, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		scope = append(scope, f)
	}
	return scope
}

// String joins the scope back into its space-delimited wire form.
func (s Scope) String() string {
	return strings.Join(s, " ")
}

// Contains reports whether the named permission is part of the scope.
func (s Scope) Contains(name string) bool {
	for _, v := range s {
		if v == name {
			return true
		}
	}
	return false
}

// IsSubsetOf reports whether every permission in s appears in allowed.
func (s Scope) IsSubsetOf(allowed Scope) bool {
	for _, v := range s {
		if !allowed.Contains(v) {
			return false
		}
	}
	return true
}
