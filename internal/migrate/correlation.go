package migrate

import (
	"fmt"
	"strings"

	"github.com/steveyegge/projmigrate/internal/types"
)

// FieldCorrelation is the target counterpart of one source field.
type FieldCorrelation struct {
	TargetFieldID string
	DataType      types.DataType

	// Options maps source option ID to target option ID. Nil unless the
	// field is single-select.
	Options map[string]string
}

// TargetOption returns the target option ID for a source option ID.
func (c FieldCorrelation) TargetOption(sourceOptionID string) (string, bool) {
	id, ok := c.Options[sourceOptionID]
	return id, ok
}

// CorrelationTable maps source field IDs to their target counterparts. It is
// built during field correlation and Status reconciliation and is read-only
// once frozen.
type CorrelationTable struct {
	fields map[string]FieldCorrelation
	frozen bool
}

// NewCorrelationTable returns an empty table.
func NewCorrelationTable() *CorrelationTable {
	return &CorrelationTable{fields: make(map[string]FieldCorrelation)}
}

// Add records the correlation for a source field.
func (t *CorrelationTable) Add(sourceFieldID string, c FieldCorrelation) error {
	if t.frozen {
		return fmt.Errorf("correlation table is frozen; cannot add field %s", sourceFieldID)
	}
	if _, exists := t.fields[sourceFieldID]; exists {
		return fmt.Errorf("field %s is already correlated", sourceFieldID)
	}
	t.fields[sourceFieldID] = c
	return nil
}

// Lookup returns the correlation for a source field.
func (t *CorrelationTable) Lookup(sourceFieldID string) (FieldCorrelation, bool) {
	if t == nil {
		return FieldCorrelation{}, false
	}
	c, ok := t.fields[sourceFieldID]
	return c, ok
}

// Freeze makes the table read-only.
func (t *CorrelationTable) Freeze() { t.frozen = true }

// Len returns the number of correlated fields.
func (t *CorrelationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.fields)
}

// CorrelateOptions pairs source and target options by exact name. The result
// is a bijection: both lists must have the same length and every source name
// must occur exactly once in the target. Anything else is an
// ErrOptionCorrelationMismatch.
func CorrelateOptions(source, target []types.FieldOption) (map[string]string, error) {
	if len(source) != len(target) {
		return nil, fmt.Errorf("%w: source has %d options (%s), target has %d (%s)",
			ErrOptionCorrelationMismatch,
			len(source), joinOptionNames(source),
			len(target), joinOptionNames(target))
	}

	targetByName := make(map[string]string, len(target))
	for _, opt := range target {
		if _, dup := targetByName[opt.Name]; dup {
			return nil, fmt.Errorf("%w: target has duplicate option %q", ErrOptionCorrelationMismatch, opt.Name)
		}
		targetByName[opt.Name] = opt.ID
	}

	result := make(map[string]string, len(source))
	seen := make(map[string]bool, len(source))
	for _, opt := range source {
		if seen[opt.Name] {
			return nil, fmt.Errorf("%w: source has duplicate option %q", ErrOptionCorrelationMismatch, opt.Name)
		}
		seen[opt.Name] = true

		id, ok := targetByName[opt.Name]
		if !ok {
			return nil, fmt.Errorf("%w: option %q not found in target (%s)",
				ErrOptionCorrelationMismatch, opt.Name, joinOptionNames(target))
		}
		result[opt.ID] = id
	}
	return result, nil
}

func joinOptionNames(opts []types.FieldOption) string {
	return strings.Join(optionNames(opts), ", ")
}
