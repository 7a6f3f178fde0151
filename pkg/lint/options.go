package lint

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// OptionType is the declared type tag of a configuration option.
type OptionType string

const (
	TypeString     OptionType = "optional string"
	TypeBool       OptionType = "optional bool"
	TypeStringList OptionType = "optional list<string>"
	TypeStringMap  OptionType = "optional map<string, string>"
	TypeListMap    OptionType = "optional map<string, list<string>>"
)

// Option declares one configuration key an adapter accepts.
type Option struct {
	Name string     `json:"name"`
	Type OptionType `json:"type"`
	Help string     `json:"help"`
}

// Fragment is the set of options contributed by one layer of an adapter (base, family, tool).
type Fragment struct {
	Owner   string
	Options []Option
}

// Schema is an ordered chain of fragments, least specific first.
type Schema struct {
	fragments []Fragment
}

// NewSchema builds a schema from fragments ordered least specific first.
func NewSchema(fragments ...Fragment) Schema {
	return Schema{fragments: append([]Fragment(nil), fragments...)}
}

// Lookup walks the chain from the most specific fragment down and returns the
// first declaration of key along with the fragment owner.
func (s Schema) Lookup(key string) (Option, string, bool) {
	for i := len(s.fragments) - 1; i >= 0; i-- {
		for _, opt := range s.fragments[i].Options {
			if opt.Name == key {
				return opt, s.fragments[i].Owner, true
			}
		}
	}
	return Option{}, "", false
}

// Options returns the merged option set sorted by name. When two fragments
// declare the same key the most specific declaration wins.
func (s Schema) Options() []Option {
	merged := make(map[string]Option)
	for _, fragment := range s.fragments {
		for _, opt := range fragment.Options {
			merged[opt.Name] = opt
		}
	}
	out := make([]Option, 0, len(merged))
	for _, opt := range merged {
		out = append(out, opt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Coerce converts a decoded configuration value (as produced by YAML or JSON
// decoders) into the Go type for t. No weak conversions are performed, so a
// number is never accepted where a string is declared.
func Coerce(t OptionType, raw interface{}) (interface{}, error) {
	var target interface{}
	switch t {
	case TypeString:
		var v string
		target = &v
	case TypeBool:
		var v bool
		target = &v
	case TypeStringList:
		var v []string
		target = &v
	case TypeStringMap:
		var v map[string]string
		target = &v
	case TypeListMap:
		var v map[string][]string
		target = &v
	default:
		return nil, fmt.Errorf("unsupported option type %q", t)
	}

	if err := mapstructure.Decode(raw, target); err != nil {
		return nil, fmt.Errorf("expected %s: %w", t, err)
	}

	switch v := target.(type) {
	case *string:
		return *v, nil
	case *bool:
		return *v, nil
	case *[]string:
		return *v, nil
	case *map[string]string:
		return *v, nil
	case *map[string][]string:
		return *v, nil
	}
	return nil, fmt.Errorf("unsupported option type %q", t)
}

// Values holds configured option values keyed by option name.
// It is written during setup only and read concurrently afterwards.
type Values map[string]interface{}

// Has reports whether key was configured.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// String returns the string value of key or "".
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Bool returns the bool value of key or false.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// List returns the list value of key or nil.
func (v Values) List(key string) []string {
	l, _ := v[key].([]string)
	return l
}

// Map returns the map value of key or nil.
func (v Values) Map(key string) map[string]string {
	m, _ := v[key].(map[string]string)
	return m
}

// ListMap returns the map-of-lists value of key or nil.
func (v Values) ListMap(key string) map[string][]string {
	m, _ := v[key].(map[string][]string)
	return m
}
