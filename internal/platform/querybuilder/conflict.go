package querybuilder

import (
	"fmt"
	"strings"
)

// Conflict is a Postgres ON CONFLICT clause. Without assignments it renders DO NOTHING.
type Conflict struct {
	columns     []string
	constraint  string
	predicate   string
	assignments []string
}

// OnConflict targets a unique index over columns.
func OnConflict(columns ...string) Conflict {
	return Conflict{columns: append([]string(nil), columns...)}
}

// OnConstraint targets a named constraint.
func OnConstraint(name string) Conflict {
	return Conflict{constraint: name}
}

// Where narrows the target to a partial unique index, e.g. "deleted_at IS NULL".
func (c Conflict) Where(predicate string) Conflict {
	c.predicate = predicate
	return c
}

// DoUpdate adds raw "column = expression" assignments.
func (c Conflict) DoUpdate(assignments ...string) Conflict {
	c.assignments = append(append([]string(nil), c.assignments...), assignments...)
	return c
}

// DoUpdateExcluded overwrites each column with the value proposed for insertion.
func (c Conflict) DoUpdateExcluded(columns ...string) Conflict {
	for _, column := range columns {
		c = c.DoUpdate(column + " = EXCLUDED." + column)
	}
	return c
}

// Accumulate adds the proposed value onto the stored one, e.g. running point totals.
func (c Conflict) Accumulate(table string, columns ...string) Conflict {
	for _, column := range columns {
		c = c.DoUpdate(fmt.Sprintf("%s = %s.%s + EXCLUDED.%s", column, table, column, column))
	}
	return c
}

func (c Conflict) render(s *statement) error {
	switch {
	case c.constraint != "":
		s.write(" ON CONFLICT ON CONSTRAINT ", c.constraint)
	case len(c.columns) > 0:
		s.write(" ON CONFLICT (", strings.Join(c.columns, ", "), ")")
		if c.predicate != "" {
			s.write(" WHERE ", c.predicate)
		}
	default:
		return fmt.Errorf("conflict target is required")
	}

	if len(c.assignments) == 0 {
		s.write(" DO NOTHING")
		return nil
	}
	s.write(" DO UPDATE SET ", strings.Join(c.assignments, ", "))
	return nil
}
