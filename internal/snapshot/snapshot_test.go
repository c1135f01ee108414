package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/projmigrate/internal/types"
)

const exportJSON = `{
  "project": {
    "title": "Roadmap",
    "fields": {"nodes": [
      {"id": "F_title", "name": "Title", "dataType": "TITLE"},
      {"id": "F_status", "name": "Status", "dataType": "single_select", "options": [
        {"id": "S_todo", "name": "Todo", "color": "GRAY", "description": "Not started"},
        {"id": "S_done", "name": "Done"}
      ]},
      {"id": "F_est", "name": "Estimate", "dataType": "NUMBER"}
    ]},
    "repositories": {"nodes": [{"nameWithOwner": "octo/web"}]}
  },
  "projectItems": [
    {
      "id": "PVTI_1",
      "isArchived": true,
      "content": {"__typename": "Issue", "number": 5, "title": "Fix it", "repository": {"nameWithOwner": "octo/api"}},
      "fieldValues": {"nodes": [
        {"__typename": "ProjectV2ItemFieldTextValue", "text": "Fix it", "field": {"id": "F_title"}},
        {"__typename": "ProjectV2ItemFieldSingleSelectValue", "optionId": "S_done", "field": {"id": "F_status"}},
        {"__typename": "ProjectV2ItemFieldNumberValue", "number": 3, "field": {"id": "F_est"}},
        {"__typename": "ProjectV2ItemFieldLabelValue", "field": {"id": "F_labels"}},
        {"__typename": "ProjectV2ItemFieldSomethingNew", "field": {"id": "F_new"}},
        {"__typename": "ProjectV2ItemFieldTextValue", "text": "orphan"}
      ]}
    },
    {
      "id": "PVTI_2",
      "content": {"__typename": "DraftIssue", "title": "Idea", "body": "hello", "createdAt": "2024-01-02T03:04:05Z", "creator": {"login": "alice"}},
      "fieldValues": {"nodes": []}
    },
    {
      "id": "PVTI_3",
      "content": {"__typename": "PullRequest", "number": 9, "title": "Add", "repository": {"nameWithOwner": "octo/web"}},
      "fieldValues": {"nodes": []}
    },
    {
      "id": "PVTI_4",
      "content": {"__typename": "Discussion", "title": "Talk"},
      "fieldValues": {"nodes": []}
    }
  ]
}`

func TestLoad(t *testing.T) {
	snap, err := Load(strings.NewReader(exportJSON))
	require.NoError(t, err)

	assert.Equal(t, "Roadmap", snap.Title)
	require.Len(t, snap.Fields, 3)

	status, ok := snap.FieldByName("Status")
	require.True(t, ok)
	assert.True(t, status.IsStatus())
	assert.Equal(t, types.DataTypeSingleSelect, status.DataType, "data type is normalized")
	assert.Equal(t, []string{"Todo", "Done"}, status.OptionNames())
	assert.Equal(t, "Not started", status.Options[0].Description)
	assert.Empty(t, status.Options[1].Color)

	require.Len(t, snap.Items, 4)

	issue := snap.Items[0]
	assert.True(t, issue.IsArchived)
	content, ok := issue.Content.(*types.IssueContent)
	require.True(t, ok)
	assert.Equal(t, "octo/api", content.RepositoryNameWithOwner)
	assert.Equal(t, 5, content.Number)

	require.Len(t, issue.FieldValues, 4, "unknown typenames and values without a field are dropped")
	assert.Equal(t, types.FieldValueSingleSelect, issue.FieldValues[1].Kind)
	assert.Equal(t, "S_done", *issue.FieldValues[1].OptionID)
	assert.Equal(t, 3.0, *issue.FieldValues[2].Number)
	assert.True(t, issue.FieldValues[3].Kind.IsSystemManaged())

	draft, ok := snap.Items[1].Content.(*types.DraftIssueContent)
	require.True(t, ok)
	assert.Equal(t, "alice", draft.CreatorLogin)
	assert.Equal(t, "2024-01-02T03:04:05Z", draft.CreatedAt)
	assert.Equal(t, "hello", draft.Body)

	_, ok = snap.Items[2].Content.(*types.PullRequestContent)
	assert.True(t, ok)

	unknown, ok := snap.Items[3].Content.(*types.UnknownContent)
	require.True(t, ok)
	assert.Equal(t, types.ContentKind("Discussion"), unknown.Kind())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "nope"},
		{"missing project", `{"projectItems": []}`},
		{"field without id", `{"project": {"fields": {"nodes": [{"name": "X", "dataType": "TEXT"}]}}}`},
		{"duplicate field id", `{"project": {"fields": {"nodes": [{"id": "F", "name": "A"}, {"id": "F", "name": "B"}]}}}`},
		{"item without id", `{"project": {"title": "x"}, "projectItems": [{"content": {"__typename": "DraftIssue"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(exportJSON), 0o600))

	snap, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", snap.Title)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRepositoryNames(t *testing.T) {
	snap, err := Load(strings.NewReader(exportJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"octo/web", "octo/api"}, RepositoryNames(snap))
}
