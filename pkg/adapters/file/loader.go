package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/aretw0/autodiag/pkg/adapters/memory"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var predicateType = reflect.TypeOf(domain.Predicate{})

// document is the on-disk catalog shape.
type document struct {
	Name      string            `mapstructure:"name"`
	Questions []domain.Question `mapstructure:"questions"`
	Rules     []domain.Rule     `mapstructure:"rules"`
}

// Loader implements ports.CatalogLoader and ports.Watchable over a single YAML or JSON file.
type Loader struct {
	path string
}

// New creates a loader for the catalog at path.
// The format is picked from the extension: .json is JSON, anything else is YAML.
func New(path string) (*Loader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	return &Loader{path: abs}, nil
}

// Path returns the absolute catalog path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, decodes and validates the catalog file.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	doc, err := decode(raw, strings.EqualFold(filepath.Ext(l.path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(l.path), err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	}
	return memory.NewLoader(doc.Name, doc.Rules, doc.Questions).Load(ctx)
}

// decode parses a catalog document from YAML or JSON bytes.
func decode(raw []byte, isJSON bool) (*document, error) {
	var generic map[string]any
	if isJSON {
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
		DecodeHook:  predicateShorthandHook,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &doc, nil
}

// predicateShorthandHook expands `when: {starts: false}` into an equals predicate
// (or an all-of-equals in key order when several keys are given).
func predicateShorthandHook(from, to reflect.Type, data any) (any, error) {
	if to != predicateType {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	if _, explicit := m["kind"]; explicit {
		return data, nil
	}

	keys := make([]string, 0, len(m))
	for k, v := range m {
		if _, isBool := v.(bool); !isBool {
			return nil, fmt.Errorf("%w: shorthand value for %q must be a boolean", domain.ErrInvalidPredicate, k)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return data, nil
	}
	sort.Strings(keys)

	terms := make([]any, len(keys))
	for i, k := range keys {
		terms[i] = map[string]any{"kind": string(domain.PredicateEquals), "key": k, "value": m[k]}
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return map[string]any{"kind": string(domain.PredicateAll), "terms": terms}, nil
}
