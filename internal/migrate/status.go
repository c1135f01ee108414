package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/steveyegge/projmigrate/internal/types"
)

// The Status field cannot be created or edited through the API, so its options
// are reconciled by hand: prompt, check, and prompt again until they match.
type statusState int

const (
	statusPrompting statusState = iota
	statusChecking
	statusDone
	statusFailed
)

// SettingsURL returns the settings page of a project.
func SettingsURL(projectURL string) string {
	return strings.TrimSuffix(projectURL, "/") + "/settings"
}

// reconcileStatus blocks until the target Status field has the same option
// names as the source, then records the option correlation. A snapshot without
// a single-select Status field needs no reconciliation.
func (e *Engine) reconcileStatus(ctx context.Context, project *types.TargetProject, snap *types.ProjectSnapshot, table *CorrelationTable) error {
	source, ok := snap.FieldByName(types.StatusFieldName)
	if !ok || source.DataType != types.DataTypeSingleSelect {
		e.msg("Source project has no %s field; skipping reconciliation", types.StatusFieldName)
		return nil
	}

	prompt := StatusPrompt{
		FieldName:       source.Name,
		ExpectedOptions: source.OptionNames(),
		SettingsURL:     SettingsURL(project.URL),
	}

	var (
		state   = statusPrompting
		failure error
		field   *types.TargetField
		options map[string]string
	)
	for {
		switch state {
		case statusPrompting:
			prompt.Message = statusInstructions(prompt)
			if err := e.Prompter.ConfirmStatus(ctx, prompt); err != nil {
				failure = fmt.Errorf("waiting for %s field: %w", source.Name, err)
				state = statusFailed
				continue
			}
			state = statusChecking

		case statusChecking:
			var err error
			field, err = e.Target.FetchFieldByName(ctx, project.ID, source.Name)
			if err != nil {
				failure = fmt.Errorf("fetching %s field: %w", source.Name, err)
				state = statusFailed
				continue
			}
			if field == nil {
				failure = fmt.Errorf("target project has no %s field", source.Name)
				state = statusFailed
				continue
			}
			options, err = CorrelateOptions(source.Options, field.Options)
			switch {
			case err == nil:
				state = statusDone
			case errors.Is(err, ErrOptionCorrelationMismatch):
				e.warn("%s options do not match yet: %v", source.Name, err)
				prompt.Retry = true
				prompt.CurrentOptions = optionNames(field.Options)
				state = statusPrompting
			default:
				failure = err
				state = statusFailed
			}

		case statusDone:
			e.msg("%s field options match", source.Name)
			return table.Add(source.ID, FieldCorrelation{
				TargetFieldID: field.ID,
				DataType:      source.DataType,
				Options:       options,
			})

		case statusFailed:
			return failure
		}
	}
}

func statusInstructions(p StatusPrompt) string {
	var sb strings.Builder
	if !p.Retry {
		fmt.Fprintf(&sb, "## Set up the %s field\n\n", p.FieldName)
		fmt.Fprintf(&sb, "The %s field cannot be configured through the API. ", p.FieldName)
		fmt.Fprintf(&sb, "Open the project settings at %s, select the **%s** field ", p.SettingsURL, p.FieldName)
		sb.WriteString("and edit its options so they are exactly:\n\n")
		for _, name := range p.ExpectedOptions {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
		sb.WriteString("\nColors and descriptions do not matter. Confirm once the options are saved.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "The %s options still do not match.\n\n", p.FieldName)
	fmt.Fprintf(&sb, "- Expected: %s\n", strings.Join(p.ExpectedOptions, ", "))
	fmt.Fprintf(&sb, "- Found: %s\n\n", strings.Join(p.CurrentOptions, ", "))
	fmt.Fprintf(&sb, "Fix them at %s and confirm again.\n", p.SettingsURL)
	return sb.String()
}

func optionNames(opts []types.FieldOption) []string {
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.Name
	}
	return names
}
