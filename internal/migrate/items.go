package migrate

import (
	"context"
	"fmt"

	"github.com/steveyegge/projmigrate/internal/types"
)

// DraftBody prefixes a draft issue body with its original author and creation
// time, which the target would otherwise attribute to the migrating user.
func DraftBody(d *types.DraftIssueContent) string {
	return fmt.Sprintf("Created by @%s on %s\n\n%s", d.CreatorLogin, d.CreatedAt, d.Body)
}

// BuildFieldValue converts a source value into an update payload for the
// correlated target field. The result is empty when there is nothing to send,
// for example a single-select option with no target counterpart.
func BuildFieldValue(corr FieldCorrelation, v types.FieldValue) types.FieldValueInput {
	var in types.FieldValueInput
	switch corr.DataType {
	case types.DataTypeText:
		in.Text = v.Text
	case types.DataTypeNumber:
		in.Number = v.Number
	case types.DataTypeDate:
		in.Date = v.Date
	case types.DataTypeSingleSelect:
		if v.OptionID != nil {
			if id, ok := corr.TargetOption(*v.OptionID); ok {
				in.SingleSelectOptionID = &id
			}
		}
	}
	return in
}

// replicateItem recreates one source item on the target project.
func (e *Engine) replicateItem(ctx context.Context, projectID string, snap *types.ProjectSnapshot, item types.ProjectItemSnapshot, table *CorrelationTable) error {
	var itemID string

	switch c := item.Content.(type) {
	case *types.IssueContent, *types.PullRequestContent:
		ref, _ := types.Reference(c)
		content, err := e.resolveContent(ctx, ref)
		if err != nil {
			return err
		}
		if content == nil {
			e.result.Stats.ItemsSkipped++
			return nil
		}
		itemID, err = e.Target.AddItemByContentID(ctx, projectID, content.ID)
		if err != nil {
			return fmt.Errorf("adding %s: %w", ref, err)
		}
		e.msg("Added %s", ref)

	case *types.DraftIssueContent:
		var err error
		itemID, err = e.Target.AddDraftIssue(ctx, projectID, c.Title, DraftBody(c))
		if err != nil {
			return fmt.Errorf("adding draft issue %q: %w", c.Title, err)
		}
		e.msg("Added draft issue %q", c.Title)

	case nil:
		return fmt.Errorf("%w: item %s has no content", ErrUnsupportedContentType, item.ID)

	default:
		return fmt.Errorf("%w: %q (item %s)", ErrUnsupportedContentType, c.Kind(), item.ID)
	}
	e.result.Stats.ItemsCreated++

	if item.IsArchived {
		if err := e.Target.ArchiveItem(ctx, projectID, itemID); err != nil {
			return fmt.Errorf("archiving item %s: %w", itemID, err)
		}
		e.result.Stats.ItemsArchived++
	}

	return e.replayFieldValues(ctx, projectID, itemID, snap, item, table)
}

// replayFieldValues sets the item's custom field values on the target item.
// System-managed values are derived by the target from the content itself and
// are skipped silently.
func (e *Engine) replayFieldValues(ctx context.Context, projectID, itemID string, snap *types.ProjectSnapshot, item types.ProjectItemSnapshot, table *CorrelationTable) error {
	for _, v := range item.FieldValues {
		if v.Kind.IsSystemManaged() {
			continue
		}
		def, known := snap.Field(v.FieldID)
		if known && !def.DataType.IsCustom() {
			continue
		}

		name := v.FieldID
		if known {
			name = def.Name
		}

		corr, ok := table.Lookup(v.FieldID)
		if !ok {
			e.warn("Skipping value of field %q on item %s: field was not migrated", name, item.ID)
			e.result.Stats.ValuesSkipped++
			continue
		}

		input := BuildFieldValue(corr, v)
		if input.IsEmpty() {
			if v.OptionID != nil {
				e.warn("Skipping value of field %q on item %s: option %s has no counterpart in the target", name, item.ID, *v.OptionID)
			} else {
				e.warn("Skipping value of field %q on item %s: value does not match field type %s", name, item.ID, corr.DataType)
			}
			e.result.Stats.ValuesSkipped++
			continue
		}

		if err := e.Target.UpdateItemFieldValue(ctx, projectID, itemID, corr.TargetFieldID, input); err != nil {
			return fmt.Errorf("setting field %q on item %s: %w", name, itemID, err)
		}
		e.result.Stats.ValuesSet++
	}
	return nil
}
