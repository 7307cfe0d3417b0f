package args

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Suite is a declarative collection of test cases. In the YAML file each
// entry under tests may give any Arguments field either a scalar or a
// list; the loader expands the cartesian product of all list-valued fields
// into individual argument sets over the defaults.
type Suite struct {
	Name  string
	Cases []Arguments
}

type rawSuite struct {
	Name  string           `yaml:"name"`
	Tests []map[string]any `yaml:"tests"`
}

// LoadSuite reads and expands one YAML suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite expands suite YAML already in memory.
func ParseSuite(data []byte) (*Suite, error) {
	var raw rawSuite
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse suite: %w", err)
	}

	s := &Suite{Name: raw.Name}
	for i, entry := range raw.Tests {
		expanded, err := expand(entry)
		if err != nil {
			return nil, fmt.Errorf("suite entry %d: %w", i, err)
		}
		for _, m := range expanded {
			a, err := decode(m)
			if err != nil {
				return nil, fmt.Errorf("suite entry %d: %w", i, err)
			}
			if a.Function == "" {
				return nil, fmt.Errorf("suite entry %d: missing function", i)
			}
			s.Cases = append(s.Cases, a)
		}
	}
	return s, nil
}

// expand turns one scalar-or-list map into the cartesian product of its
// list-valued fields. Keys are visited in sorted order so the case order
// is stable across runs.
func expand(entry map[string]any) ([]map[string]any, error) {
	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []map[string]any{{}}
	for _, k := range keys {
		values, ok := entry[k].([]any)
		if !ok {
			values = []any{entry[k]}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("field %q: empty list", k)
		}
		next := make([]map[string]any, 0, len(out)*len(values))
		for _, base := range out {
			for _, v := range values {
				m := make(map[string]any, len(base)+1)
				for bk, bv := range base {
					m[bk] = bv
				}
				m[k] = v
				next = append(next, m)
			}
		}
		out = next
	}
	return out, nil
}

// decode overlays one concrete field map onto the defaults by a marshal
// round trip, so field parsing stays in one place (the yaml tags). Unknown
// keys are an error rather than silently taking the default.
func decode(m map[string]any) (Arguments, error) {
	a := Default()
	data, err := yaml.Marshal(m)
	if err != nil {
		return a, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return a, err
	}
	return a, nil
}
