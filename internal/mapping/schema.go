package mapping

import (
	"slices"

	"instant-mapper/internal/analyze"
	"instant-mapper/internal/match"
	"instant-mapper/primitive"
)

// CurrentVersion is the only mapping schema version understood.
const CurrentVersion = "1"

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Matching selects the field name comparison mode.
	Matching string `yaml:"matching,omitempty"`

	// Categories lists the conversion categories converters may use.
	// Empty means every category.
	Categories StringOrArray `yaml:"categories,omitempty"`

	// TypeMappings is a list of per type pair overrides.
	TypeMappings []TypeMapping `yaml:"mappings,omitempty"`
}

// TypeMapping tunes how one source type maps to one target type.
type TypeMapping struct {
	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// OneToOne maps source field names to target field names.
	// Example: { "OrderNumber": "Reference" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Ignore lists target fields that should not be written.
	Ignore StringOrArray `yaml:"ignore,omitempty"`
}

// Find returns the overrides for the (src, dst) pair, or nil.
func (mf *MappingFile) Find(src, dst analyze.TypeID) *TypeMapping {
	if mf == nil {
		return nil
	}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		if src.Matches(tm.Source) && dst.Matches(tm.Target) {
			return tm
		}
	}

	return nil
}

// Mode returns the configured matching mode.
func (mf *MappingFile) Mode() (match.Mode, error) {
	if mf == nil {
		return match.ModeCaseInsensitive, nil
	}

	return match.ParseMode(mf.Matching)
}

// CategorySet returns the configured conversion categories, all of them when
// none are listed.
func (mf *MappingFile) CategorySet() (primitive.CategoryEnum, error) {
	if mf == nil || mf.Categories.IsEmpty() {
		return primitive.CategoryAll, nil
	}

	return primitive.ParseCategories(mf.Categories)
}

// Rename returns the target field name configured for a source field.
// Both the Go field name and the tag name of the source field are accepted.
func (tm *TypeMapping) Rename(source analyze.FieldInfo) (string, bool) {
	if tm == nil {
		return "", false
	}

	if target, ok := tm.OneToOne[source.Name]; ok {
		return target, true
	}

	target, ok := tm.OneToOne[source.Key]

	return target, ok
}

// Ignores reports whether the target field is on the ignore list.
func (tm *TypeMapping) Ignores(target analyze.FieldInfo) bool {
	if tm == nil {
		return false
	}

	return slices.Contains(tm.Ignore, target.Name) || slices.Contains(tm.Ignore, target.Key)
}
