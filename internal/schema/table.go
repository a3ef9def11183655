package schema

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alexanderramin/crossjob/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// Code is one visa classification and its DELTA fields.
type Code struct {
	Code   string                   `yaml:"-"`
	Title  string                   `yaml:"title"`
	Fields []domain.FieldDescriptor `yaml:"fields"`
}

// Table maps classification codes to their field descriptors.
type Table struct {
	codes map[string]Code
}

type tableFile struct {
	Codes map[string]Code `yaml:"codes"`
}

// DefaultTable returns the embedded classification table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded schema table: %v", err))
	}
	return t
}

// LoadTable reads and parses a table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable decodes and validates a YAML table document.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing schema table: %w", err)
	}
	t := &Table{codes: make(map[string]Code, len(f.Codes))}
	for name, c := range f.Codes {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty classification code", ErrInvalidTable)
		}
		if err := validateFields(c.Fields); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, name, err)
		}
		c.Code = name
		t.codes[name] = c
	}
	return t, nil
}

func validateFields(fields []domain.FieldDescriptor) error {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if domain.IsBlank(f.Key) {
			return fmt.Errorf("field %d has no key", i)
		}
		if seen[f.Key] {
			return fmt.Errorf("duplicate field %q", f.Key)
		}
		seen[f.Key] = true
		if !domain.ValidFieldKinds[f.Kind] {
			return fmt.Errorf("field %q has unknown kind %q", f.Key, f.Kind)
		}
		if f.Kind == domain.FieldSelect && len(f.Options) == 0 {
			return fmt.Errorf("select field %q has no options", f.Key)
		}
	}
	return nil
}

// Lookup returns the classification registered under code.
func (t *Table) Lookup(code string) (Code, bool) {
	c, ok := t.codes[strings.TrimSpace(code)]
	if !ok {
		return Code{}, false
	}
	c.Fields = slices.Clone(c.Fields)
	return c, true
}

// Codes returns every classification sorted by code.
func (t *Table) Codes() []Code {
	out := make([]Code, 0, len(t.codes))
	for _, c := range t.codes {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Code) int { return strings.Compare(a.Code, b.Code) })
	return out
}

// Len returns the number of classifications.
func (t *Table) Len() int { return len(t.codes) }
