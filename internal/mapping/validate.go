package mapping

import (
	"fmt"

	"instant-mapper/internal/diagnostic"
)

// Validate checks the mapping file structurally. Field names are checked
// against the actual types later, when a plan is compiled.
func Validate(mf *MappingFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError(diagnostic.CodeInvalidConfig, "mapping file is nil", "", "")
		return res
	}

	if mf.Version != CurrentVersion {
		res.AddError(diagnostic.CodeInvalidConfig,
			fmt.Sprintf("unsupported version %q, expected %q", mf.Version, CurrentVersion), "", "version")
	}

	if _, err := mf.Mode(); err != nil {
		res.AddError(diagnostic.CodeInvalidConfig, err.Error(), "", "matching")
	}

	if _, err := mf.CategorySet(); err != nil {
		res.AddError(diagnostic.CodeInvalidConfig, err.Error(), "", "categories")
	}

	seenPairs := map[string]struct{}{}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		tpStr := fmt.Sprintf("%s->%s", tm.Source, tm.Target)

		if tm.Source == "" || tm.Target == "" {
			res.AddError(diagnostic.CodeInvalidConfig,
				fmt.Sprintf("mapping #%d needs both source and target", i+1), tpStr, "")

			continue
		}

		if _, ok := seenPairs[tpStr]; ok {
			res.AddError(diagnostic.CodeInvalidConfig, "duplicate type mapping", tpStr, "")
			continue
		}

		seenPairs[tpStr] = struct{}{}

		validateOneToOne(res, tpStr, tm)

		for _, ig := range tm.Ignore {
			if ig == "" {
				res.AddError(diagnostic.CodeInvalidConfig, "empty field name in ignore", tpStr, "")
			}
		}
	}

	return res
}

func validateOneToOne(res *diagnostic.Diagnostics, tpStr string, tm *TypeMapping) {
	targets := map[string]string{}

	for source, target := range tm.OneToOne {
		if source == "" || target == "" {
			res.AddError(diagnostic.CodeInvalidConfig,
				fmt.Sprintf("121 entry %q: %q has an empty field name", source, target), tpStr, source)

			continue
		}

		if other, ok := targets[target]; ok {
			first, second := min(other, source), max(other, source)
			res.AddError(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("121 maps both %q and %q to %q", first, second, target), tpStr, target)

			continue
		}

		targets[target] = source
	}
}
