package plan

import (
	"fmt"
	"reflect"

	"instant-mapper/internal/analyze"
	"instant-mapper/internal/diagnostic"
	"instant-mapper/internal/match"
)

// Compile builds the plan mapping struct type src onto struct type dst.
//
// Unmatched, inaccessible and unconvertible fields are skipped and reported
// as diagnostics, never as errors. Compile fails only when a type is not a
// struct (ErrNotStruct) or when two target fields collide under the matching
// mode (ErrDuplicateField).
func Compile(src, dst reflect.Type, cfg Config) (*Plan, error) {
	srcInfo, err := analyze.Analyze(src)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	dstInfo, err := analyze.Analyze(dst)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	cfg = cfg.withDefaults()

	c := &compiler{
		cfg:    cfg,
		src:    srcInfo,
		dst:    dstInfo,
		pair:   typePairString(srcInfo.ID, dstInfo.ID),
		mapped: map[string]string{},
	}

	if err := c.indexTargets(); err != nil {
		return nil, err
	}

	c.checkOverrides()

	for _, field := range srcInfo.Fields {
		c.compileField(field)
	}

	return &Plan{
		source:    srcInfo,
		target:    dstInfo,
		construct: cfg.Accessors.Constructor(dst),
		ops:       c.ops,
		diags:     c.diags,
	}, nil
}

type compiler struct {
	cfg     Config
	src     *analyze.TypeInfo
	dst     *analyze.TypeInfo
	pair    string
	targets map[string]analyze.FieldInfo // matching key -> target field
	mapped  map[string]string            // target name -> source name
	ops     []FieldOp
	diags   diagnostic.Diagnostics
}

func (c *compiler) indexTargets() error {
	c.targets = make(map[string]analyze.FieldInfo, len(c.dst.Fields))

	for _, field := range c.dst.Fields {
		key := match.Key(field.Key, c.cfg.Matching)
		if prev, ok := c.targets[key]; ok {
			return fmt.Errorf("%w: %s and %s of %s both match %q (%s)",
				ErrDuplicateField, prev.Name, field.Name, c.dst.ID, key, c.cfg.Matching)
		}

		c.targets[key] = field
	}

	return nil
}

// checkOverrides reports mapping file entries naming fields that do not exist.
func (c *compiler) checkOverrides() {
	tm := c.cfg.Overrides
	if tm == nil {
		return
	}

	for source, target := range tm.OneToOne {
		if findField(c.src, source) == nil {
			c.diags.AddWarning(diagnostic.CodeUnknownField,
				fmt.Sprintf("121 source field %q not found in %s", source, c.src.ID.Short()), c.pair, source)
		}

		if findField(c.dst, target) == nil {
			c.diags.AddWarning(diagnostic.CodeUnknownField,
				fmt.Sprintf("121 target field %q not found in %s", target, c.dst.ID.Short()), c.pair, target)
		}
	}

	for _, name := range tm.Ignore {
		if findField(c.dst, name) == nil {
			c.diags.AddWarning(diagnostic.CodeUnknownField,
				fmt.Sprintf("ignored field %q not found in %s", name, c.dst.ID.Short()), c.pair, name)
		}
	}
}

// findField looks a field up by its Go name or its tag name.
func findField(info *analyze.TypeInfo, name string) *analyze.FieldInfo {
	if field := info.Field(name); field != nil {
		return field
	}

	for i := range info.Fields {
		if info.Fields[i].Key == name {
			return &info.Fields[i]
		}
	}

	return nil
}

// target resolves the target field for a source field.
func (c *compiler) target(field analyze.FieldInfo) (analyze.FieldInfo, string, bool) {
	if renamed, ok := c.cfg.Overrides.Rename(field); ok {
		if target := findField(c.dst, renamed); target != nil {
			return *target, "yaml:121", true
		}

		target, ok := c.targets[match.Key(renamed, c.cfg.Matching)]

		return target, "yaml:121", ok
	}

	target, ok := c.targets[match.Key(field.Key, c.cfg.Matching)]

	return target, "auto", ok
}

func (c *compiler) compileField(field analyze.FieldInfo) {
	target, origin, ok := c.target(field)
	if !ok {
		c.diags.AddWarning(diagnostic.CodeNoMatch,
			fmt.Sprintf("no target field matches %s", field.Name), c.pair, field.Name)

		return
	}

	switch {
	case !field.Readable:
		c.diags.AddWarning(diagnostic.CodeNotReadable,
			fmt.Sprintf("source field %s is not readable", field.Name), c.pair, field.Name)

		return
	case c.cfg.Overrides.Ignores(target):
		c.diags.AddInfo(diagnostic.CodeIgnored,
			fmt.Sprintf("target field %s is ignored", target.Name), c.pair, target.Name)

		return
	case !target.Writable:
		c.diags.AddWarning(diagnostic.CodeNotWritable,
			fmt.Sprintf("target field %s is not writable", target.Name), c.pair, target.Name)

		return
	}

	if prev, ok := c.mapped[target.Name]; ok {
		c.diags.AddWarning(diagnostic.CodeDuplicateTarget,
			fmt.Sprintf("%s already written from %s, %s skipped", target.Name, prev, field.Name), c.pair, target.Name)

		return
	}

	op := FieldOp{
		Source: field,
		Target: target,
		get:    c.cfg.Accessors.Getter(field),
		set:    c.cfg.Accessors.Setter(target),
	}

	compat := match.ScoreTypeCompatibility(field.Type, target.Type)
	if compat.Compatibility.IsDirect() {
		op.Strategy = StrategyDirectAssign
		op.Explanation = fmt.Sprintf("%s: %s -> %s (%s)", origin, field.Name, target.Name, compat.Compatibility)
		c.diags.AddInfo(diagnostic.CodeDirect, op.Explanation, c.pair, target.Name)
	} else {
		convert, ok := c.cfg.Converters.Converter(field.Type, target.Type)
		if !ok {
			c.diags.AddWarning(diagnostic.CodeNoConversion,
				fmt.Sprintf("no converter from %s to %s, %s dropped", compat.SourceType, compat.TargetType, field.Name),
				c.pair, target.Name)

			return
		}

		op.Strategy = StrategyConvert
		op.convert = convert
		op.Explanation = fmt.Sprintf("%s: %s -> %s (%s to %s)", origin, field.Name, target.Name,
			compat.SourceType, compat.TargetType)
		c.diags.AddInfo(diagnostic.CodeConverted, op.Explanation, c.pair, target.Name)
	}

	c.mapped[target.Name] = field.Name
	c.ops = append(c.ops, op)
}
