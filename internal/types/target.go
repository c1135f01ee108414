package types

import (
	"errors"
	"fmt"
	"strings"
)

// OwnerKind is the type of account that owns the target project.
type OwnerKind string

const (
	OwnerKindOrganization OwnerKind = "organization"
	OwnerKindUser         OwnerKind = "user"
)

// IsValid checks if the owner kind is one of the supported values.
func (k OwnerKind) IsValid() bool {
	return k == OwnerKindOrganization || k == OwnerKindUser
}

// ParseOwnerKind accepts "organization"/"org" and "user".
func ParseOwnerKind(s string) (OwnerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "organization", "org":
		return OwnerKindOrganization, nil
	case "user":
		return OwnerKindUser, nil
	}
	return "", fmt.Errorf("invalid owner type %q (valid values: organization, user)", s)
}

// TargetProject is the newly created project.
type TargetProject struct {
	ID     string
	Number int
	URL    string
	Title  string
}

// TargetField is a field as it exists on the target project.
type TargetField struct {
	ID       string
	Name     string
	DataType DataType
	Options  []FieldOption
}

// FieldSpec describes a field to create on the target project. Every option
// must carry a name, a color and a description.
type FieldSpec struct {
	Name     string
	DataType DataType
	Options  []FieldOption
}

// ContentRef is an issue or pull request resolved in the target system.
type ContentRef struct {
	ID    string
	Title string
}

// FieldValueInput is the payload of a field value update. Exactly one member is
// set for a usable value; an input with no member set carries nothing.
type FieldValueInput struct {
	Date                 *string
	Number               *float64
	Text                 *string
	SingleSelectOptionID *string
}

// IsEmpty reports whether no payload member is populated.
func (v FieldValueInput) IsEmpty() bool {
	return v.Date == nil && v.Number == nil && v.Text == nil && v.SingleSelectOptionID == nil
}

// ErrNotFound is wrapped by target implementations when an owner or
// repository does not exist.
var ErrNotFound = errors.New("not found")
