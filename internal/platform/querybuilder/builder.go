package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one predicate; a WHERE clause joins them with AND.
type Condition func(s *statement)

func compare(column, op string, value any) Condition {
	return func(s *statement) {
		s.write(column, " ", op, " ")
		s.bind(value)
	}
}

func Eq(column string, value any) Condition  { return compare(column, "=", value) }
func Lt(column string, value any) Condition  { return compare(column, "<", value) }
func Lte(column string, value any) Condition { return compare(column, "<=", value) }
func Gt(column string, value any) Condition  { return compare(column, ">", value) }

// In matches nothing when values is empty.
func In(column string, values []any) Condition {
	return func(s *statement) {
		if len(values) == 0 {
			s.write("1=0")
			return
		}
		s.write(column, " IN (")
		s.list(len(values), ", ", func(i int) { s.bind(values[i]) })
		s.write(")")
	}
}

func IsNull(column string) Condition {
	return func(s *statement) { s.write(column, " IS NULL") }
}

// Expr is a raw predicate with '?' placeholders. It is parenthesized so an OR inside it cannot
// leak into the surrounding AND chain.
func Expr(expr string, args ...any) Condition {
	return func(s *statement) {
		s.write("(")
		s.expr(expr, args)
		s.write(")")
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var s statement
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.write(" LIMIT ", strconv.Itoa(b.limit))
	}
	return s.result()
}

type InsertBuilder struct {
	table    string
	columns  []string
	rows     [][]any
	conflict *Conflict
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) OnConflict(conflict Conflict) *InsertBuilder {
	b.conflict = &conflict
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
	}

	var s statement
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	s.list(len(b.rows), ", ", func(i int) {
		s.write("(")
		s.list(len(b.rows[i]), ", ", func(j int) { s.bind(b.rows[i][j]) })
		s.write(")")
	})
	if b.conflict != nil {
		if err := b.conflict.render(&s); err != nil {
			return "", nil, err
		}
	}
	return s.result()
}

type UpdateBuilder struct {
	table string
	sets  []Condition
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, compare(column, "=", value))
	return b
}

// SetExpr assigns a raw expression, e.g. SetExpr("deleted_at", "NOW()").
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, func(s *statement) {
		s.write(column, " = ")
		s.expr(expr, args)
	})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var s statement
	s.write("UPDATE ", b.table, " SET ")
	s.list(len(b.sets), ", ", func(i int) { b.sets[i](&s) })
	s.where(b.where)
	return s.result()
}
