package http

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Params is an insertion-ordered parameter map. The order in which keys are
// first set is the order they appear in query strings and request bodies.
//
// A nil *Params behaves as an empty map for reads.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams creates a Params from alternating key/value pairs. A trailing key
// without a value is ignored.
//
//	http.NewParams("id", 5, "sort", "name")
func NewParams(kv ...any) *Params {
	p := &Params{values: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		p.Set(key, kv[i+1])
	}
	return p
}

// ParamsFromMap copies m into a Params with keys in lexical order, since Go
// maps carry no insertion order of their own.
func ParamsFromMap(m map[string]any) *Params {
	p := &Params{values: make(map[string]any, len(m))}
	for _, k := range sortedKeys(m) {
		p.Set(k, m[k])
	}
	return p
}

// Set assigns value to key. Re-setting an existing key keeps its position.
func (p *Params) Set(key string, value any) *Params {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value for key and whether the key is present.
func (p *Params) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of keys.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Without returns a copy of p with the given keys removed. p is not modified.
func (p *Params) Without(keys ...string) *Params {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	out := &Params{values: make(map[string]any, p.Len())}
	if p == nil {
		return out
	}
	for _, k := range p.keys {
		if _, skip := drop[k]; skip {
			continue
		}
		out.Set(k, p.values[k])
	}
	return out
}

// MarshalJSON encodes p as a JSON object with keys in insertion order.
func (p *Params) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}
		val, err := marshalJSON(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildQuery renders every parameter as key=value, both sides encoded, in
// insertion order.
func BuildQuery(p *Params) []string {
	if p.Len() == 0 {
		return nil
	}
	pairs := make([]string, 0, p.Len())
	for _, k := range p.keys {
		pairs = append(pairs, EscapeComponent(k)+"="+Encode(p.values[k]))
	}
	return pairs
}

// FormBody renders p as an application/x-www-form-urlencoded body.
func FormBody(p *Params) string {
	return strings.Join(BuildQuery(p), "&")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// marshalJSON is json.Marshal without HTML escaping, so bodies carry <, >
// and & verbatim.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
