// Package snapshot decodes exported project snapshots.
//
// The export file mirrors the GraphQL shapes the exporter queried: fields and
// repositories are connection objects with a "nodes" list, item content and
// field values are discriminated by "__typename".
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/steveyegge/projmigrate/internal/types"
)

type exportFile struct {
	Project      *exportProject `json:"project"`
	ProjectItems []exportItem   `json:"projectItems"`
}

type exportProject struct {
	Title  string `json:"title"`
	Fields struct {
		Nodes []exportField `json:"nodes"`
	} `json:"fields"`
	Repositories struct {
		Nodes []struct {
			NameWithOwner string `json:"nameWithOwner"`
		} `json:"nodes"`
	} `json:"repositories"`
}

type exportField struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	DataType string         `json:"dataType"`
	Options  []exportOption `json:"options,omitempty"`
}

type exportOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

type exportItem struct {
	ID          string        `json:"id"`
	IsArchived  bool          `json:"isArchived"`
	Content     exportContent `json:"content"`
	FieldValues struct {
		Nodes []exportFieldValue `json:"nodes"`
	} `json:"fieldValues"`
}

type exportContent struct {
	TypeName   string `json:"__typename"`
	Number     int    `json:"number,omitempty"`
	Title      string `json:"title"`
	Body       string `json:"body,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	Repository *struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository,omitempty"`
	Creator *struct {
		Login string `json:"login"`
	} `json:"creator,omitempty"`
}

type exportFieldValue struct {
	TypeName string `json:"__typename"`
	Field    *struct {
		ID string `json:"id"`
	} `json:"field"`
	Text     *string  `json:"text,omitempty"`
	Number   *float64 `json:"number,omitempty"`
	Date     *string  `json:"date,omitempty"`
	OptionID *string  `json:"optionId,omitempty"`
}

// fieldValueKinds maps exported value typenames to value kinds.
var fieldValueKinds = map[string]types.FieldValueKind{
	"ProjectV2ItemFieldTextValue":         types.FieldValueText,
	"ProjectV2ItemFieldNumberValue":       types.FieldValueNumber,
	"ProjectV2ItemFieldDateValue":         types.FieldValueDate,
	"ProjectV2ItemFieldSingleSelectValue": types.FieldValueSingleSelect,
	"ProjectV2ItemFieldIterationValue":    types.FieldValueIteration,
	"ProjectV2ItemFieldLabelValue":        types.FieldValueLabels,
	"ProjectV2ItemFieldMilestoneValue":    types.FieldValueMilestone,
	"ProjectV2ItemFieldPullRequestValue":  types.FieldValuePullRequest,
	"ProjectV2ItemFieldRepositoryValue":   types.FieldValueRepository,
	"ProjectV2ItemFieldReviewerValue":     types.FieldValueReviewer,
	"ProjectV2ItemFieldUserValue":         types.FieldValueUser,
}

// LoadFile reads and decodes the snapshot at path.
func LoadFile(path string) (*types.ProjectSnapshot, error) {
	f, err := os.Open(path) // #nosec G304 - path is an explicit user input
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load decodes a snapshot from r.
func Load(r io.Reader) (*types.ProjectSnapshot, error) {
	var raw exportFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if raw.Project == nil {
		return nil, fmt.Errorf("failed to parse snapshot: missing \"project\"")
	}

	snap := &types.ProjectSnapshot{Title: raw.Project.Title}

	seen := make(map[string]bool, len(raw.Project.Fields.Nodes))
	for _, f := range raw.Project.Fields.Nodes {
		if f.ID == "" {
			return nil, fmt.Errorf("failed to parse snapshot: field %q has no id", f.Name)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("failed to parse snapshot: duplicate field id %q", f.ID)
		}
		seen[f.ID] = true

		def := types.FieldDefinition{
			ID:       f.ID,
			Name:     f.Name,
			DataType: types.DataType(strings.ToUpper(f.DataType)),
		}
		for _, o := range f.Options {
			def.Options = append(def.Options, types.FieldOption{
				ID:          o.ID,
				Name:        o.Name,
				Color:       o.Color,
				Description: o.Description,
			})
		}
		snap.Fields = append(snap.Fields, def)
	}

	for _, r := range raw.Project.Repositories.Nodes {
		snap.Repositories = append(snap.Repositories, types.RepositoryRef{NameWithOwner: r.NameWithOwner})
	}

	for i, it := range raw.ProjectItems {
		item := types.ProjectItemSnapshot{
			ID:         it.ID,
			IsArchived: it.IsArchived,
			Content:    convertContent(it.Content),
		}
		for _, v := range it.FieldValues.Nodes {
			fv, ok := convertFieldValue(v)
			if !ok {
				continue
			}
			item.FieldValues = append(item.FieldValues, fv)
		}
		if item.ID == "" {
			return nil, fmt.Errorf("failed to parse snapshot: item %d has no id", i)
		}
		snap.Items = append(snap.Items, item)
	}

	return snap, nil
}

func convertContent(c exportContent) types.ItemContent {
	repo := ""
	if c.Repository != nil {
		repo = c.Repository.NameWithOwner
	}

	switch types.ContentKind(c.TypeName) {
	case types.ContentKindIssue:
		return &types.IssueContent{RepositoryNameWithOwner: repo, Number: c.Number, Title: c.Title}
	case types.ContentKindPullRequest:
		return &types.PullRequestContent{RepositoryNameWithOwner: repo, Number: c.Number, Title: c.Title}
	case types.ContentKindDraftIssue:
		draft := &types.DraftIssueContent{Title: c.Title, Body: c.Body, CreatedAt: c.CreatedAt}
		if c.Creator != nil {
			draft.CreatorLogin = c.Creator.Login
		}
		return draft
	}
	return &types.UnknownContent{TypeName: c.TypeName}
}

// convertFieldValue drops values without a field reference and values whose
// typename is unknown; both can only be system-managed.
func convertFieldValue(v exportFieldValue) (types.FieldValue, bool) {
	kind, ok := fieldValueKinds[v.TypeName]
	if !ok || v.Field == nil || v.Field.ID == "" {
		return types.FieldValue{}, false
	}
	return types.FieldValue{
		FieldID:  v.Field.ID,
		Kind:     kind,
		Text:     v.Text,
		Number:   v.Number,
		Date:     v.Date,
		OptionID: v.OptionID,
	}, true
}

// RepositoryNames returns every repository the snapshot refers to, from the
// project's linked repositories and from issue/pull request items, deduplicated
// in first-seen order.
func RepositoryNames(snap *types.ProjectSnapshot) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, r := range snap.Repositories {
		add(r.NameWithOwner)
	}
	for _, it := range snap.Items {
		if ref, ok := types.Reference(it.Content); ok {
			add(ref.RepositoryNameWithOwner)
		}
	}
	return names
}
