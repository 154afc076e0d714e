package postgres

import (
	"fmt"
	"strings"
)

// selectQuery assembles a SELECT with numbered placeholders from optional
// filter fields.
type selectQuery struct {
	base    string
	where   []string
	args    []any
	orderBy string
	limit   int
}

func newSelect(base string) *selectQuery {
	return &selectQuery{base: base}
}

func (q *selectQuery) param(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *selectQuery) eq(column string, v any) *selectQuery {
	q.where = append(q.where, column+" = "+q.param(v))
	return q
}

func (q *selectQuery) lt(column string, v any) *selectQuery {
	q.where = append(q.where, column+" < "+q.param(v))
	return q
}

// contains matches s anywhere in column, ignoring case. LIKE wildcards in s
// are matched literally.
func (q *selectQuery) contains(column, s string) *selectQuery {
	q.where = append(q.where, column+" ILIKE "+q.param("%"+escapeLike(s)+"%")+` ESCAPE '\'`)
	return q
}

func (q *selectQuery) in(column string, values []int64) *selectQuery {
	q.where = append(q.where, column+" = ANY("+q.param(values)+")")
	return q
}

func (q *selectQuery) orderByDesc(column string) *selectQuery {
	q.orderBy = column + " DESC"
	return q
}

func (q *selectQuery) orderByAsc(column string) *selectQuery {
	q.orderBy = column + " ASC"
	return q
}

func (q *selectQuery) limitTo(n int) *selectQuery {
	q.limit = n
	return q
}

func (q *selectQuery) sql() (string, []any) {
	var b strings.Builder
	b.WriteString(q.base)
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.orderBy)
	}
	if q.limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(q.param(q.limit))
	}
	return b.String(), q.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
