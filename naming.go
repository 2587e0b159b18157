package parquetrecord

import "github.com/iancoleman/strcase"

// snakeCase renders a Go exported field name (e.g. "UserID") as the
// SNAKE_CASE wire name spec.md §4.2's SnakeCase naming policy and §6's
// FieldNameSnakeCase match strategy both use.
func snakeCase(name string) string {
	return strcase.ToSnake(name)
}
