package transform

import (
	"fmt"
	"strings"
)

// Pair is one entry of the compact field-mapping grammar
// <field>:<action>[,<field>:<action>]*.
type Pair struct {
	Field  string
	Action string
}

// ParseMapping parses the field-mapping grammar. Each entry must carry at
// least a field name and an action token; a field may appear only once.
// Action tokens are returned upper-cased; validating them against the
// consuming component's action set is the caller's job.
func ParseMapping(raw string) ([]Pair, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("mapping is empty; expected <field>:<action>[,<field>:<action>]*")
	}
	entries := strings.Split(raw, ",")
	pairs := make([]Pair, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("mapping %q is incorrectly formed; expected <field>:<action>", entry)
		}
		field := parts[0]
		if seen[field] {
			return nil, fmt.Errorf("field %q appears more than once in the mapping", field)
		}
		seen[field] = true
		pairs = append(pairs, Pair{Field: field, Action: strings.ToUpper(parts[1])})
	}
	return pairs, nil
}
