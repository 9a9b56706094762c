package roster

import (
	"strings"

	"github.com/kailas-cloud/rosterdex/internal/domain/query/structured"
)

// likeEscaper escapes LIKE wildcards; pair with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// normalizedColumn lower-cases a column and turns tabs and newlines into spaces
// so whole-word patterns see a single separator kind.
func normalizedColumn(col string) string {
	return "REPLACE(REPLACE(REPLACE(LOWER(e." + col + "), char(9), ' '), char(10), ' '), char(13), ' ')"
}

// predicateSQL renders p as an OR across its columns.
func predicateSQL(p structured.Predicate) (string, []any) {
	needle := likeEscaper.Replace(p.Value())

	parts := make([]string, 0, len(p.Columns()))
	args := make([]any, 0, len(p.Columns()))
	for _, col := range p.Columns() {
		switch p.Mode() {
		case structured.WholeWord:
			parts = append(parts, "(' ' || "+normalizedColumn(col)+" || ' ') LIKE ? ESCAPE '\\'")
			args = append(args, "% "+needle+" %")
		default:
			parts = append(parts, "LOWER(e."+col+") LIKE ? ESCAPE '\\'")
			args = append(args, "%"+needle+"%")
		}
	}
	if len(parts) == 1 {
		return parts[0], args
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// buildSelect translates a structured query into SQL. Column names come from
// the searchable whitelist enforced by structured predicates; values are bound.
func buildSelect(q structured.Query) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	for i, c := range employeeColumns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("e.")
		b.WriteString(c)
	}
	b.WriteString(" FROM employees e")

	var clauses []string
	if q.Project() != "" {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM projects p WHERE p.employee_id = e.employee_id"+
				" AND LOWER(p.project_name) LIKE ? ESCAPE '\\')")
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(q.Project()))+"%")
	}
	for _, p := range q.Must() {
		sql, a := predicateSQL(p)
		clauses = append(clauses, sql)
		args = append(args, a...)
	}
	if len(q.Should()) > 0 {
		parts := make([]string, 0, len(q.Should()))
		for _, p := range q.Should() {
			sql, a := predicateSQL(p)
			parts = append(parts, sql)
			args = append(args, a...)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	b.WriteString(" ORDER BY e.name, e.employee_id")
	if !q.LimitDeferred() {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit())
	}

	return b.String(), args
}
