package parquetrecord

import "strings"

// matchField resolves a requested field's file column within group's
// immediate children, trying the match strategies in priority order up to
// the ceiling cfg.FieldMatchStrategy allows, per spec.md §6:
//
//  1. FieldName: exact match against the field's wire name.
//  2. FieldNameSnakeCase: exact match against the snake_case rendering of
//     the field's logical (Go) name, for files produced by a writer that
//     used a different naming policy than this reader's WriteConfig.
//  3. BestEffort: a case-and-separator-insensitive match, rejected with
//     TypeMismatch-adjacent ambiguity if more than one child qualifies.
//
// It returns (nil, nil) — not an error — when no strategy finds a match;
// callers decide whether that's fatal via cfg.FailOnMissingColumn.
func matchField(group *Schema, fd FieldDesc, cfg *ReaderConfig, path []string) (*Schema, *SchemaError) {
	if child, ok := group.ChildByName(fd.WireName); ok {
		return child, nil
	}
	if cfg.FieldMatchStrategy == FieldName {
		return nil, nil
	}

	snake := snakeCase(fd.LogicalName)
	if child, ok := group.ChildByName(snake); ok {
		return child, nil
	}
	if cfg.FieldMatchStrategy == FieldNameSnakeCase {
		return nil, nil
	}

	return bestEffortMatch(group, fd, path)
}

// bestEffortMatch folds case and strips separators from both the requested
// field and every candidate column name, matching if exactly one candidate
// folds to the same key. Two or more candidates folding to the same key is
// reported as an ambiguous match rather than guessed at.
func bestEffortMatch(group *Schema, fd FieldDesc, path []string) (*Schema, *SchemaError) {
	want := foldFieldName(fd.LogicalName)

	var match *Schema
	var matchName string
	for _, child := range group.Children {
		if foldFieldName(child.Name) != want {
			continue
		}
		if match != nil {
			return nil, errorf(TypeMismatch, append(path, fd.LogicalName), "ambiguous column match: both %q and %q fold to %q under best-effort matching", matchName, child.Name, want)
		}
		match, matchName = child, child.Name
	}

	return match, nil
}

func foldFieldName(name string) string {
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return strings.ToLower(name)
}
