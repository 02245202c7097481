package http

import (
	"sort"
	"strings"
)

// LowerKeys returns a copy of headers with every key lower-cased. When two
// keys collide after lowering, the lexically last original key wins.
func LowerKeys(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for _, k := range sortedHeaderKeys(headers) {
		out[strings.ToLower(k)] = headers[k]
	}
	return out
}

// ComposeHeaders merges the verb's defaults, the session tag and the caller's
// headers according to the verb's Policy.
//
// For verbs that carry the session tag the order, later winning, is
// {ntag: tag}, defaults, caller. For GET it is caller, then defaults.
func ComposeHeaders(v Verb, tag string, caller map[string]string) map[string]string {
	policy := v.Policy()
	lowered := LowerKeys(caller)
	out := make(map[string]string, len(lowered)+len(policy.Defaults)+1)

	if policy.SessionTag {
		out[HeaderSessionTag] = tag
	}

	layers := []map[string]string{policy.Defaults, lowered}
	if !policy.CallerOverridesDefaults {
		layers = []map[string]string{lowered, policy.Defaults}
	}
	for _, layer := range layers {
		for k, val := range layer {
			out[k] = val
		}
	}
	return out
}

func sortedHeaderKeys(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
