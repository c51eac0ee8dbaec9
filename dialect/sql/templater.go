package sql

import (
	"fmt"
	"strings"
)

// Dialect identifies the SQL dialect a Templater fragment is rendered for.
// Column/placeholder syntax is otherwise identical across dialects (@name
// params per the wire convention); only pagination varies.
type Dialect string

const (
	DialectSQLite    Dialect = "sqlite"
	DialectMySQL     Dialect = "mysql"
	DialectPostgres  Dialect = "postgres"
	DialectSQLServer Dialect = "sqlserver"
)

// Join describes one JOIN clause: Kind is "INNER", "LEFT", etc.
type Join struct {
	Kind  string
	Table string
	Alias string
	On    string
}

// OrderByClause is one column in an ORDER BY list.
type OrderByClause struct {
	Column string
	Desc   bool
}

// AggregateExpr is one per-column function expression a GroupBySummary
// or aggregate-method body projects.
type AggregateExpr struct {
	Func  string // "SUM", "AVG", "MIN", "MAX"
	Col   string
	Alias string
}

// Select emits a single SELECT statement. columns are rendered verbatim
// (already resolved to table.column form by the caller); table/alias name
// the FROM clause. limit <= 0 omits pagination entirely; offset is applied
// only when limit > 0.
func Select(d Dialect, columns []string, table, alias string, joins []Join, where string, orderBy []OrderByClause, limit, offset int) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)
	if alias != "" {
		b.WriteString(" ")
		b.WriteString(alias)
	}
	for _, j := range joins {
		kind := j.Kind
		if kind == "" {
			kind = "INNER"
		}
		fmt.Fprintf(&b, " %s JOIN %s", kind, j.Table)
		if j.Alias != "" {
			fmt.Fprintf(&b, " %s", j.Alias)
		}
		fmt.Fprintf(&b, " ON %s", j.On)
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if len(orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		parts := make([]string, len(orderBy))
		for i, o := range orderBy {
			if o.Desc {
				parts[i] = o.Column + " DESC"
			} else {
				parts[i] = o.Column + " ASC"
			}
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	if limit > 0 {
		b.WriteString(paginate(d, limit, offset, len(orderBy) > 0))
	}
	return b.String()
}

// paginate renders the dialect-specific pagination suffix. SQL Server
// requires an ORDER BY before OFFSET/FETCH; callers that paginate without
// one get ORDER BY (SELECT NULL) so the statement stays valid.
func paginate(d Dialect, limit, offset int, hasOrderBy bool) string {
	switch d {
	case DialectSQLServer:
		var b strings.Builder
		if !hasOrderBy {
			b.WriteString(" ORDER BY (SELECT NULL)")
		}
		fmt.Fprintf(&b, " OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", offset, limit)
		return b.String()
	default:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
}

// Insert emits an INSERT statement. params are the @-prefixed placeholders
// aligned positionally with columns.
func Insert(table string, columns, params []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(params, ", "))
}

// Update emits an UPDATE statement. assignments are pre-rendered
// "column = @param" fragments.
func Update(table string, assignments []string, where string) string {
	stmt := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(assignments, ", "))
	if where != "" {
		stmt += " WHERE " + where
	}
	return stmt
}

// Delete emits a DELETE statement.
func Delete(table, where string) string {
	stmt := "DELETE FROM " + table
	if where != "" {
		stmt += " WHERE " + where
	}
	return stmt
}

// Count emits a row-count statement.
func Count(table, where string) string {
	stmt := "SELECT COUNT(1) FROM " + table
	if where != "" {
		stmt += " WHERE " + where
	}
	return stmt
}

// Exists emits the same shape as Count; callers compare the scalar result
// against zero rather than relying on a dialect-specific EXISTS(...) form,
// since EXISTS subqueries don't compose cleanly with the derived-method
// templates that already have a fully-formed WHERE clause in hand.
func Exists(table, where string) string {
	return Count(table, where)
}

// GroupBySummary emits one row per distinct parent key, left-joining the
// child table so parents with zero matching children still appear (section
// 9: summaries are always an outer join, never INNER).
func GroupBySummary(parent, child, fk string, parentCols []string, aggregates []AggregateExpr) string {
	cols := make([]string, 0, len(parentCols)+len(aggregates))
	cols = append(cols, parentCols...)
	for _, a := range aggregates {
		cols = append(cols, Aggregate(a.Func, a.Col)+" AS "+a.Alias)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s LEFT JOIN %s ON %s.id = %s.%s",
		strings.Join(cols, ", "), parent, child, parent, child, fk)
	fmt.Fprintf(&b, " GROUP BY %s", strings.Join(parentCols, ", "))
	return b.String()
}

// Aggregate wraps fn(col). SUM is COALESCE-wrapped so an empty group
// reports 0 instead of NULL; AVG/MIN/MAX are left unwrapped and report NULL
// for an empty group.
func Aggregate(fn, col string) string {
	if strings.EqualFold(fn, "SUM") {
		return fmt.Sprintf("COALESCE(SUM(%s), 0)", col)
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(fn), col)
}
