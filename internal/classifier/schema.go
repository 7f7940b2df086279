package classifier

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchemaMissing        = errors.New("feature schema missing")
	ErrIncompatibleArtifact = errors.New("incompatible artifact")
)

// Schema is the ordered list of feature names a classifier was trained on.
// It defines both the required features and their positions in the vector.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema copies names into an immutable Schema. Empty lists, blank names
// and duplicates are rejected.
func NewSchema(names []string) (Schema, error) {
	if len(names) == 0 {
		return Schema{}, ErrSchemaMissing
	}

	index := make(map[string]int, len(names))
	copied := make([]string, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return Schema{}, fmt.Errorf("%w: feature name at position %d is blank", ErrIncompatibleArtifact, i)
		}
		if prev, dup := index[name]; dup {
			return Schema{}, fmt.Errorf("%w: feature %q declared at positions %d and %d", ErrIncompatibleArtifact, name, prev, i)
		}
		index[name] = i
		copied[i] = name
	}

	return Schema{names: copied, index: index}, nil
}

// MustSchema is NewSchema for fixed, known-good lists.
func MustSchema(names ...string) Schema {
	s, err := NewSchema(names)
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns a copy of the ordered feature names.
func (s Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s Schema) Len() int {
	return len(s.names)
}

// At returns the feature name at position i.
func (s Schema) At(i int) string {
	return s.names[i]
}

// Index returns the position of name, or -1.
func (s Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether the schema declares name.
func (s Schema) Has(name string) bool {
	return s.Index(name) >= 0
}
