// Package types defines the project snapshot model and the target-side values
// exchanged with the remote project system during a migration.
package types

// DataType is the declared kind of a project field.
type DataType string

// Field data types as exported by the source project.
const (
	DataTypeText               DataType = "TEXT"
	DataTypeNumber             DataType = "NUMBER"
	DataTypeDate               DataType = "DATE"
	DataTypeSingleSelect       DataType = "SINGLE_SELECT"
	DataTypeIteration          DataType = "ITERATION"
	DataTypeTitle              DataType = "TITLE"
	DataTypeAssignees          DataType = "ASSIGNEES"
	DataTypeLabels             DataType = "LABELS"
	DataTypeLinkedPullRequests DataType = "LINKED_PULL_REQUESTS"
	DataTypeMilestone          DataType = "MILESTONE"
	DataTypeRepository         DataType = "REPOSITORY"
	DataTypeReviewers          DataType = "REVIEWERS"
	DataTypeTracks             DataType = "TRACKS"
	DataTypeTrackedBy          DataType = "TRACKED_BY"
)

// IsCustom reports whether fields of this type are owned by the project and
// can be recreated through the field-creation call.
func (d DataType) IsCustom() bool {
	switch d {
	case DataTypeText, DataTypeNumber, DataTypeDate, DataTypeSingleSelect:
		return true
	}
	return false
}

// StatusFieldName is the built-in single-select field every new project gets.
// It cannot be created through the API, only edited by hand.
const StatusFieldName = "Status"

// ProjectSnapshot is the frozen state of the source project at export time.
type ProjectSnapshot struct {
	Title        string
	Fields       []FieldDefinition
	Repositories []RepositoryRef
	Items        []ProjectItemSnapshot
}

// Field returns the definition with the given source ID.
func (p *ProjectSnapshot) Field(id string) (FieldDefinition, bool) {
	for _, f := range p.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// FieldByName returns the definition with the given name.
func (p *ProjectSnapshot) FieldByName(name string) (FieldDefinition, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// FieldDefinition describes one field of the source project.
type FieldDefinition struct {
	ID       string        // Source-scoped opaque ID
	Name     string        // Unique within the snapshot's custom fields
	DataType DataType
	Options  []FieldOption // SINGLE_SELECT only
}

// IsStatus reports whether this is the built-in Status field.
func (f FieldDefinition) IsStatus() bool {
	return f.Name == StatusFieldName
}

// OptionNames returns the option names in declared order.
func (f FieldDefinition) OptionNames() []string {
	names := make([]string, len(f.Options))
	for i, o := range f.Options {
		names[i] = o.Name
	}
	return names
}

// FieldOption is one choice of a single-select field.
type FieldOption struct {
	ID          string
	Name        string
	Color       string // Empty when the export did not carry one
	Description string // Empty when the export did not carry one
}

// RepositoryRef identifies a repository by "owner/name". It is only ever used as
// a correlation key against the mapping table.
type RepositoryRef struct {
	NameWithOwner string
}

// DefaultOptionColor is used for options exported without a color.
const DefaultOptionColor = "GRAY"

var optionColors = map[string]bool{
	"GRAY":   true,
	"BLUE":   true,
	"GREEN":  true,
	"YELLOW": true,
	"ORANGE": true,
	"RED":    true,
	"PINK":   true,
	"PURPLE": true,
}

// IsValidOptionColor checks if color is one the target accepts for a
// single-select option.
func IsValidOptionColor(color string) bool {
	return optionColors[color]
}
