package github

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/projmigrate/internal/types"
)

func TestResolveOwnerID(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		if req.Variables["login"] == "ghost" {
			return `{"data":{"organization":null},"errors":[{"message":"Could not resolve to an Organization with the login of 'ghost'."}]}`
		}
		if strings.Contains(req.Query, "user(login: $login)") {
			return `{"data":{"user":{"id":"U_1"}}}`
		}
		return `{"data":{"organization":{"id":"O_1"}}}`
	})
	ctx := context.Background()

	id, err := client.ResolveOwnerID(ctx, "acme", types.OwnerKindOrganization)
	require.NoError(t, err)
	assert.Equal(t, "O_1", id)
	assert.Contains(t, (*reqs)[0].Query, "organization(login: $login)")

	id, err = client.ResolveOwnerID(ctx, "octocat", types.OwnerKindUser)
	require.NoError(t, err)
	assert.Equal(t, "U_1", id)

	_, err = client.ResolveOwnerID(ctx, "ghost", types.OwnerKindOrganization)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveRepositoryID(t *testing.T) {
	client, _ := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		if req.Variables["name"] == "missing" {
			return `{"data":{"repository":null},"errors":[{"message":"Could not resolve to a Repository with the name 'octo/missing'."}]}`
		}
		return `{"data":{"repository":{"id":"R_1"}}}`
	})

	id, err := client.ResolveRepositoryID(context.Background(), "octo", "web")
	require.NoError(t, err)
	assert.Equal(t, "R_1", id)

	_, err = client.ResolveRepositoryID(context.Background(), "octo", "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveIssueOrPullRequest(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		switch req.Variables["number"] {
		case float64(404):
			return `{"data":{"repository":{"issueOrPullRequest":null}},"errors":[{"message":"Could not resolve to an issue or pull request with the number of 404."}]}`
		case float64(500):
			return `{"data":null,"errors":[{"message":"Something went wrong"}]}`
		}
		return `{"data":{"repository":{"issueOrPullRequest":{"id":"PR_7","title":"Add thing"}}}}`
	})
	ctx := context.Background()

	ref, err := client.ResolveIssueOrPullRequest(ctx, "octo", "web", 7)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "PR_7", ref.ID)
	assert.Equal(t, "Add thing", ref.Title)
	assert.Contains(t, (*reqs)[0].Query, "$number:Int!")

	ref, err = client.ResolveIssueOrPullRequest(ctx, "octo", "web", 404)
	require.NoError(t, err)
	assert.Nil(t, ref)

	_, err = client.ResolveIssueOrPullRequest(ctx, "octo", "web", 500)
	assert.Error(t, err)
}

func TestCreateProject(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		return `{"data":{"createProjectV2":{"projectV2":{"id":"PVT_1","number":3,"url":"https://github.com/orgs/acme/projects/3","title":"Roadmap"}}}}`
	})

	p, err := client.CreateProject(context.Background(), "O_1", "Roadmap")
	require.NoError(t, err)
	assert.Equal(t, "PVT_1", p.ID)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, "https://github.com/orgs/acme/projects/3", p.URL)

	input := (*reqs)[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "O_1", input["ownerId"])
	assert.Equal(t, "Roadmap", input["title"])
}

func TestCreateField_SingleSelect(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		return `{"data":{"createProjectV2Field":{"projectV2Field":{
			"id":"PVTSSF_1","name":"Priority","dataType":"SINGLE_SELECT",
			"options":[
				{"id":"o1","name":"High","color":"RED","description":"urgent"},
				{"id":"o2","name":"Low","color":"GRAY","description":"later"}
			]}}}}`
	})

	field, err := client.CreateField(context.Background(), "PVT_1", types.FieldSpec{
		Name:     "Priority",
		DataType: types.DataTypeSingleSelect,
		Options: []types.FieldOption{
			{Name: "High", Color: "RED", Description: "urgent"},
			{Name: "Low", Color: "GRAY", Description: "later"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PVTSSF_1", field.ID)
	assert.Equal(t, types.DataTypeSingleSelect, field.DataType)
	require.Len(t, field.Options, 2)
	assert.Equal(t, "o2", field.Options[1].ID)

	raw, _ := json.Marshal((*reqs)[0].Variables["input"])
	assert.Contains(t, string(raw), `"dataType":"SINGLE_SELECT"`)
	assert.Contains(t, string(raw), `"singleSelectOptions":[{"color":"RED","description":"urgent","name":"High"}`)
}

func TestCreateField_Text(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		return `{"data":{"createProjectV2Field":{"projectV2Field":{"id":"PVTF_1","name":"Notes","dataType":"TEXT"}}}}`
	})

	field, err := client.CreateField(context.Background(), "PVT_1", types.FieldSpec{Name: "Notes", DataType: types.DataTypeText})
	require.NoError(t, err)
	assert.Equal(t, "PVTF_1", field.ID)
	assert.Empty(t, field.Options)

	input := (*reqs)[0].Variables["input"].(map[string]interface{})
	assert.NotContains(t, input, "singleSelectOptions")
}

func TestFetchFieldByName(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		if req.Variables["name"] == "Nope" {
			return `{"data":{"node":{"field":null}}}`
		}
		return `{"data":{"node":{"field":{"id":"PVTSSF_9","name":"Status","dataType":"SINGLE_SELECT",
			"options":[{"id":"s1","name":"Todo","color":"GRAY","description":""}]}}}}`
	})
	ctx := context.Background()

	field, err := client.FetchFieldByName(ctx, "PVT_1", "Status")
	require.NoError(t, err)
	require.NotNil(t, field)
	assert.Equal(t, "PVTSSF_9", field.ID)
	assert.Equal(t, []string{"Todo"}, []string{field.Options[0].Name})
	assert.Contains(t, (*reqs)[0].Query, "$projectId:ID!")
	assert.Equal(t, "PVT_1", (*reqs)[0].Variables["projectId"])

	field, err = client.FetchFieldByName(ctx, "PVT_1", "Nope")
	require.NoError(t, err)
	assert.Nil(t, field)
}

func TestItemMutations(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		switch {
		case strings.Contains(req.Query, "addProjectV2ItemById"):
			return `{"data":{"addProjectV2ItemById":{"item":{"id":"PVTI_1"}}}}`
		case strings.Contains(req.Query, "addProjectV2DraftIssue"):
			return `{"data":{"addProjectV2DraftIssue":{"projectItem":{"id":"PVTI_2"}}}}`
		case strings.Contains(req.Query, "archiveProjectV2Item"):
			return `{"data":{"archiveProjectV2Item":{"item":{"id":"PVTI_2"}}}}`
		case strings.Contains(req.Query, "linkProjectV2ToRepository"):
			return `{"data":{"linkProjectV2ToRepository":{"repository":{"id":"R_1"}}}}`
		}
		t.Errorf("unexpected query %s", req.Query)
		return ""
	})
	ctx := context.Background()

	id, err := client.AddItemByContentID(ctx, "PVT_1", "I_1")
	require.NoError(t, err)
	assert.Equal(t, "PVTI_1", id)

	id, err = client.AddDraftIssue(ctx, "PVT_1", "Idea", "Created by @alice on T\n\nhello")
	require.NoError(t, err)
	assert.Equal(t, "PVTI_2", id)
	draft := (*reqs)[1].Variables["input"].(map[string]interface{})
	assert.Equal(t, "Created by @alice on T\n\nhello", draft["body"])

	require.NoError(t, client.ArchiveItem(ctx, "PVT_1", "PVTI_2"))
	require.NoError(t, client.LinkRepository(ctx, "PVT_1", "R_1"))
	assert.Len(t, *reqs, 4)
}

func TestUpdateItemFieldValue(t *testing.T) {
	client, reqs := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		return `{"data":{"updateProjectV2ItemFieldValue":{"projectV2Item":{"id":"PVTI_1"}}}}`
	})
	ctx := context.Background()

	date := "2024-03-01"
	number := 8.5
	option := "o2"
	require.NoError(t, client.UpdateItemFieldValue(ctx, "PVT_1", "PVTI_1", "F_1", types.FieldValueInput{Date: &date}))
	require.NoError(t, client.UpdateItemFieldValue(ctx, "PVT_1", "PVTI_1", "F_2", types.FieldValueInput{Number: &number}))
	require.NoError(t, client.UpdateItemFieldValue(ctx, "PVT_1", "PVTI_1", "F_3", types.FieldValueInput{SingleSelectOptionID: &option}))

	values := make([]map[string]interface{}, len(*reqs))
	for i, r := range *reqs {
		input := r.Variables["input"].(map[string]interface{})
		values[i] = input["value"].(map[string]interface{})
	}
	require.Contains(t, values[0], "date")
	assert.True(t, strings.HasPrefix(values[0]["date"].(string), "2024-03-01"))
	assert.Len(t, values[0], 1)
	assert.Equal(t, map[string]interface{}{"number": 8.5}, values[1])
	assert.Equal(t, map[string]interface{}{"singleSelectOptionId": "o2"}, values[2])

	err := client.UpdateItemFieldValue(ctx, "PVT_1", "PVTI_1", "F_4", types.FieldValueInput{})
	assert.Error(t, err)
	assert.Len(t, *reqs, 3, "empty value never reaches the API")
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = parseDate("2024-03-01T10:00:00Z")
	require.NoError(t, err)

	_, err = parseDate("March 1st")
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	client, _ := newGraphQLServer(t, func(t *testing.T, req graphqlRequest) string {
		return `{"data":{"rateLimit":{"limit":5000,"remaining":4990,"used":10,"resetAt":"2024-01-01T00:00:00Z"}}}`
	})

	rl, err := client.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000, rl.Limit)
	assert.Equal(t, 4990, rl.Remaining)
	assert.Equal(t, 10, rl.Used)
	assert.Equal(t, 2024, rl.ResetAt.Year())
}
