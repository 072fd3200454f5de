package server

import "github.com/authgate/authgate"

// MapScopeDescriber resolves scope descriptions from a static map.
// Scopes without an entry fall back to the scope name itself.
type MapScopeDescriber map[string]string

func (m MapScopeDescriber) Describe(scope authgate.Scope) []authgate.ScopeDescription {
	descs := make([]authgate.ScopeDescription, 0, len(scope))
	for _, name := range scope {
		text, ok := m[name]
		if !ok {
			text = name
		}
		descs = append(descs, authgate.ScopeDescription{Scope: name, Description: text})
	}
	return descs
}

// DefaultScopeDescriber covers the scopes the bundled example uses.
var DefaultScopeDescriber = MapScopeDescriber{
	"read":    "Read your account data",
	"write":   "Modify your account data",
	"profile": "View your profile information",
	"email":   "View your email address",
}
