package querybuilder

import (
	"strconv"
	"strings"
)

// statement accumulates SQL text and its positional ($n) arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

func (s *statement) write(parts ...string) {
	for _, part := range parts {
		s.sql.WriteString(part)
	}
}

// bind appends value as the next positional argument and writes its placeholder.
func (s *statement) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

func (s *statement) list(items int, sep string, each func(i int)) {
	for i := 0; i < items; i++ {
		if i > 0 {
			s.sql.WriteString(sep)
		}
		each(i)
	}
}

// expr writes a fragment whose '?' markers are bound to exprArgs in order. Surplus markers stay
// as literal '?'.
func (s *statement) expr(fragment string, exprArgs []any) {
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] != '?' || next >= len(exprArgs) {
			s.sql.WriteByte(fragment[i])
			continue
		}
		s.bind(exprArgs[next])
		next++
	}
}

func (s *statement) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	s.write(" WHERE ")
	s.list(len(conditions), " AND ", func(i int) { conditions[i](s) })
}

func (s *statement) result() (string, []any, error) {
	return s.sql.String(), s.args, nil
}
