package migrate

import (
	"context"
	"fmt"

	"github.com/steveyegge/projmigrate/internal/types"
)

// PlaceholderOptionDescription is used for options exported without a
// description. The target requires one on every option.
const PlaceholderOptionDescription = "Migrated option"

// FieldSpecFor builds the creation request for a custom source field. Options
// missing a color or description get placeholders; each substitution is
// returned as a warning message.
func FieldSpecFor(def types.FieldDefinition) (types.FieldSpec, []string) {
	spec := types.FieldSpec{Name: def.Name, DataType: def.DataType}
	if def.DataType != types.DataTypeSingleSelect {
		return spec, nil
	}

	var warnings []string
	spec.Options = make([]types.FieldOption, len(def.Options))
	for i, opt := range def.Options {
		if !types.IsValidOptionColor(opt.Color) {
			if opt.Color == "" {
				warnings = append(warnings, fmt.Sprintf("Option %q of field %q has no color; using %s",
					opt.Name, def.Name, types.DefaultOptionColor))
			} else {
				warnings = append(warnings, fmt.Sprintf("Option %q of field %q has unsupported color %q; using %s",
					opt.Name, def.Name, opt.Color, types.DefaultOptionColor))
			}
			opt.Color = types.DefaultOptionColor
		}
		if opt.Description == "" {
			warnings = append(warnings, fmt.Sprintf("Option %q of field %q has no description; using %q",
				opt.Name, def.Name, PlaceholderOptionDescription))
			opt.Description = PlaceholderOptionDescription
		}
		spec.Options[i] = opt
	}
	return spec, warnings
}

// correlateFields recreates every custom field except Status on the target and
// records the correlation. Option correlation of a field just created must
// succeed; a mismatch means the target renamed or dropped options.
func (e *Engine) correlateFields(ctx context.Context, projectID string, snap *types.ProjectSnapshot, table *CorrelationTable) error {
	for _, def := range snap.Fields {
		if !def.DataType.IsCustom() || def.IsStatus() {
			continue
		}

		spec, warnings := FieldSpecFor(def)
		for _, w := range warnings {
			e.warn("%s", w)
		}

		created, err := e.Target.CreateField(ctx, projectID, spec)
		if err != nil {
			return fmt.Errorf("creating field %q: %w", def.Name, err)
		}

		corr := FieldCorrelation{TargetFieldID: created.ID, DataType: def.DataType}
		if def.DataType == types.DataTypeSingleSelect {
			options, err := CorrelateOptions(def.Options, created.Options)
			if err != nil {
				return fmt.Errorf("field %q: %w", def.Name, err)
			}
			corr.Options = options
		}
		if err := table.Add(def.ID, corr); err != nil {
			return err
		}

		e.result.Stats.FieldsCreated++
		e.msg("Created field %q (%s)", def.Name, def.DataType)
	}
	return nil
}
