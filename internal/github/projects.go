package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/steveyegge/projmigrate/internal/types"
)

// fieldOption is a single-select option as returned by the API.
type fieldOption struct {
	ID          string `graphql:"id"`
	Name        string `graphql:"name"`
	Color       string `graphql:"color"`
	Description string `graphql:"description"`
}

// fieldConfiguration selects the members of the ProjectV2FieldConfiguration
// union that matter here.
type fieldConfiguration struct {
	Common struct {
		ID       string `graphql:"id"`
		Name     string `graphql:"name"`
		DataType string `graphql:"dataType"`
	} `graphql:"... on ProjectV2FieldCommon"`
	SingleSelect struct {
		Options []fieldOption `graphql:"options"`
	} `graphql:"... on ProjectV2SingleSelectField"`
}

func (f *fieldConfiguration) toTarget() *types.TargetField {
	if f.Common.ID == "" {
		return nil
	}
	field := &types.TargetField{
		ID:       f.Common.ID,
		Name:     f.Common.Name,
		DataType: types.DataType(f.Common.DataType),
	}
	for _, o := range f.SingleSelect.Options {
		field.Options = append(field.Options, types.FieldOption{
			ID:          o.ID,
			Name:        o.Name,
			Color:       o.Color,
			Description: o.Description,
		})
	}
	return field
}

// isNotResolvable reports whether err is GitHub's answer for a reference that
// does not exist ("Could not resolve to a Repository with the name ...").
func isNotResolvable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Could not resolve to")
}

// ResolveOwnerID returns the node ID of the organization or user named login.
func (c *Client) ResolveOwnerID(ctx context.Context, login string, kind types.OwnerKind) (string, error) {
	vars := map[string]interface{}{"login": githubv4.String(login)}

	var id string
	switch kind {
	case types.OwnerKindOrganization:
		var q struct {
			Organization struct {
				ID string `graphql:"id"`
			} `graphql:"organization(login: $login)"`
		}
		if err := c.query(ctx, &q, vars); err != nil {
			if isNotResolvable(err) {
				return "", fmt.Errorf("organization %q: %w", login, ErrNotFound)
			}
			return "", fmt.Errorf("failed to look up organization %q: %w", login, err)
		}
		id = q.Organization.ID
	case types.OwnerKindUser:
		var q struct {
			User struct {
				ID string `graphql:"id"`
			} `graphql:"user(login: $login)"`
		}
		if err := c.query(ctx, &q, vars); err != nil {
			if isNotResolvable(err) {
				return "", fmt.Errorf("user %q: %w", login, ErrNotFound)
			}
			return "", fmt.Errorf("failed to look up user %q: %w", login, err)
		}
		id = q.User.ID
	default:
		return "", fmt.Errorf("unsupported owner type %q", kind)
	}

	if id == "" {
		return "", fmt.Errorf("%s %q: %w", kind, login, ErrNotFound)
	}
	return id, nil
}

// ResolveRepositoryID returns the node ID of owner/name.
func (c *Client) ResolveRepositoryID(ctx context.Context, owner, name string) (string, error) {
	var q struct {
		Repository struct {
			ID string `graphql:"id"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := c.query(ctx, &q, vars); err != nil {
		if isNotResolvable(err) {
			return "", fmt.Errorf("repository %s/%s: %w", owner, name, ErrNotFound)
		}
		return "", fmt.Errorf("failed to look up repository %s/%s: %w", owner, name, err)
	}
	if q.Repository.ID == "" {
		return "", fmt.Errorf("repository %s/%s: %w", owner, name, ErrNotFound)
	}
	return q.Repository.ID, nil
}

// ResolveIssueOrPullRequest looks up issue or pull request number in
// owner/name. It returns nil, nil when GitHub cannot resolve the reference.
func (c *Client) ResolveIssueOrPullRequest(ctx context.Context, owner, name string, number int) (*types.ContentRef, error) {
	var q struct {
		Repository struct {
			IssueOrPullRequest struct {
				Issue struct {
					ID    string `graphql:"id"`
					Title string `graphql:"title"`
				} `graphql:"... on Issue"`
				PullRequest struct {
					ID    string `graphql:"id"`
					Title string `graphql:"title"`
				} `graphql:"... on PullRequest"`
			} `graphql:"issueOrPullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	if err := c.query(ctx, &q, vars); err != nil {
		if isNotResolvable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up %s/%s#%d: %w", owner, name, number, err)
	}

	node := q.Repository.IssueOrPullRequest
	switch {
	case node.Issue.ID != "":
		return &types.ContentRef{ID: node.Issue.ID, Title: node.Issue.Title}, nil
	case node.PullRequest.ID != "":
		return &types.ContentRef{ID: node.PullRequest.ID, Title: node.PullRequest.Title}, nil
	}
	return nil, nil
}

// CreateProject creates a project owned by ownerID.
func (c *Client) CreateProject(ctx context.Context, ownerID, title string) (*types.TargetProject, error) {
	var m struct {
		CreateProjectV2 struct {
			ProjectV2 struct {
				ID     string `graphql:"id"`
				Number int    `graphql:"number"`
				URL    string `graphql:"url"`
				Title  string `graphql:"title"`
			} `graphql:"projectV2"`
		} `graphql:"createProjectV2(input: $input)"`
	}
	input := githubv4.CreateProjectV2Input{
		OwnerID: githubv4.ID(ownerID),
		Title:   githubv4.String(title),
	}
	if err := c.mutate(ctx, &m, input); err != nil {
		return nil, fmt.Errorf("failed to create project %q: %w", title, err)
	}
	p := m.CreateProjectV2.ProjectV2
	return &types.TargetProject{ID: p.ID, Number: p.Number, URL: p.URL, Title: p.Title}, nil
}

// LinkRepository links repositoryID to projectID.
func (c *Client) LinkRepository(ctx context.Context, projectID, repositoryID string) error {
	var m struct {
		LinkProjectV2ToRepository struct {
			Repository struct {
				ID string `graphql:"id"`
			} `graphql:"repository"`
		} `graphql:"linkProjectV2ToRepository(input: $input)"`
	}
	input := githubv4.LinkProjectV2ToRepositoryInput{
		ProjectID:    githubv4.ID(projectID),
		RepositoryID: githubv4.ID(repositoryID),
	}
	if err := c.mutate(ctx, &m, input); err != nil {
		return fmt.Errorf("failed to link repository to project: %w", err)
	}
	return nil
}

// CreateField creates a custom field on projectID and returns it as created,
// including the IDs assigned to its options.
func (c *Client) CreateField(ctx context.Context, projectID string, spec types.FieldSpec) (*types.TargetField, error) {
	var m struct {
		CreateProjectV2Field struct {
			ProjectV2Field fieldConfiguration `graphql:"projectV2Field"`
		} `graphql:"createProjectV2Field(input: $input)"`
	}
	input := githubv4.CreateProjectV2FieldInput{
		ProjectID: githubv4.ID(projectID),
		DataType:  githubv4.ProjectV2CustomFieldType(spec.DataType),
		Name:      githubv4.String(spec.Name),
	}
	if spec.DataType == types.DataTypeSingleSelect {
		options := make([]githubv4.ProjectV2SingleSelectFieldOptionInput, 0, len(spec.Options))
		for _, o := range spec.Options {
			options = append(options, githubv4.ProjectV2SingleSelectFieldOptionInput{
				Name:        githubv4.String(o.Name),
				Color:       githubv4.ProjectV2SingleSelectFieldOptionColor(o.Color),
				Description: githubv4.String(o.Description),
			})
		}
		input.SingleSelectOptions = &options
	}

	if err := c.mutate(ctx, &m, input); err != nil {
		return nil, fmt.Errorf("failed to create field %q: %w", spec.Name, err)
	}
	field := m.CreateProjectV2Field.ProjectV2Field.toTarget()
	if field == nil {
		return nil, fmt.Errorf("failed to create field %q: empty response", spec.Name)
	}
	return field, nil
}

// FetchFieldByName returns the field called name on projectID, or nil, nil if
// the project has no such field.
func (c *Client) FetchFieldByName(ctx context.Context, projectID, name string) (*types.TargetField, error) {
	var q struct {
		Node struct {
			ProjectV2 struct {
				Field fieldConfiguration `graphql:"field(name: $name)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $projectId)"`
	}
	vars := map[string]interface{}{
		"projectId": ID(projectID),
		"name":      githubv4.String(name),
	}
	if err := c.query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("failed to fetch field %q: %w", name, err)
	}
	return q.Node.ProjectV2.Field.toTarget(), nil
}

// AddItemByContentID adds an issue or pull request to projectID and returns
// the new item ID.
func (c *Client) AddItemByContentID(ctx context.Context, projectID, contentID string) (string, error) {
	var m struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `graphql:"id"`
			} `graphql:"item"`
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentID),
	}
	if err := c.mutate(ctx, &m, input); err != nil {
		return "", fmt.Errorf("failed to add item to project: %w", err)
	}
	return m.AddProjectV2ItemByID.Item.ID, nil
}

// AddDraftIssue creates a draft issue item on projectID and returns the new item ID.
func (c *Client) AddDraftIssue(ctx context.Context, projectID, title, body string) (string, error) {
	var m struct {
		AddProjectV2DraftIssue struct {
			ProjectItem struct {
				ID string `graphql:"id"`
			} `graphql:"projectItem"`
		} `graphql:"addProjectV2DraftIssue(input: $input)"`
	}
	input := githubv4.AddProjectV2DraftIssueInput{
		ProjectID: githubv4.ID(projectID),
		Title:     githubv4.String(title),
		Body:      githubv4.NewString(githubv4.String(body)),
	}
	if err := c.mutate(ctx, &m, input); err != nil {
		return "", fmt.Errorf("failed to add draft issue to project: %w", err)
	}
	return m.AddProjectV2DraftIssue.ProjectItem.ID, nil
}

// ArchiveItem archives itemID on projectID.
func (c *Client) ArchiveItem(ctx context.Context, projectID, itemID string) error {
	var m struct {
		ArchiveProjectV2Item struct {
			Item struct {
				ID string `graphql:"id"`
			} `graphql:"item"`
		} `graphql:"archiveProjectV2Item(input: $input)"`
	}
	input := githubv4.ArchiveProjectV2ItemInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
	}
	if err := c.mutate(ctx, &m, input); err != nil {
		return fmt.Errorf("failed to archive item %s: %w", itemID, err)
	}
	return nil
}

// UpdateItemFieldValue sets fieldID of itemID to value.
func (c *Client) UpdateItemFieldValue(ctx context.Context, projectID, itemID, fieldID string, value types.FieldValueInput) error {
	var m struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID string `graphql:"id"`
			} `graphql:"projectV2Item"`
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}

	fieldValue, err := toFieldValue(value)
	if err != nil {
		return err
	}
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
		Value:     fieldValue,
	}
	if err := c.mutate(ctx, &m, input); err != nil {
		return fmt.Errorf("failed to update field %s on item %s: %w", fieldID, itemID, err)
	}
	return nil
}

func toFieldValue(v types.FieldValueInput) (githubv4.ProjectV2FieldValue, error) {
	var out githubv4.ProjectV2FieldValue
	switch {
	case v.Text != nil:
		out.Text = githubv4.NewString(githubv4.String(*v.Text))
	case v.Number != nil:
		out.Number = githubv4.NewFloat(githubv4.Float(*v.Number))
	case v.Date != nil:
		t, err := parseDate(*v.Date)
		if err != nil {
			return out, err
		}
		out.Date = githubv4.NewDate(githubv4.Date{Time: t})
	case v.SingleSelectOptionID != nil:
		out.SingleSelectOptionID = githubv4.NewString(githubv4.String(*v.SingleSelectOptionID))
	default:
		return out, fmt.Errorf("field value has no payload")
	}
	return out, nil
}

// parseDate accepts the YYYY-MM-DD dates of the export as well as full timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// RateLimit returns the remaining GraphQL budget.
func (c *Client) RateLimit(ctx context.Context) (*RateLimit, error) {
	var q struct {
		RateLimit struct {
			Limit     int               `graphql:"limit"`
			Remaining int               `graphql:"remaining"`
			Used      int               `graphql:"used"`
			ResetAt   githubv4.DateTime `graphql:"resetAt"`
		} `graphql:"rateLimit"`
	}
	if err := c.query(ctx, &q, nil); err != nil {
		return nil, fmt.Errorf("failed to fetch rate limit: %w", err)
	}
	return &RateLimit{
		Limit:     q.RateLimit.Limit,
		Remaining: q.RateLimit.Remaining,
		Used:      q.RateLimit.Used,
		ResetAt:   q.RateLimit.ResetAt.Time,
	}, nil
}
