package study

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
)

// Page bounds a list query. Zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

// orderBy parses "field" or "-field" against the allowed columns.
// An empty ordering falls back to def.
func orderBy(table, ordering, def string, allowed map[string]bool) (clause.OrderBy, error) {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		ordering = def
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	if !allowed[field] {
		return clause.OrderBy{}, study.Invalid("unsupported ordering %q", ordering)
	}
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: table, Name: field}, Desc: desc},
		{Column: clause.Column{Table: table, Name: "id"}},
	}}, nil
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

const likeEscape = ` ESCAPE '\'`
