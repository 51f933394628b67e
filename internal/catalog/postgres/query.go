package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/lingo/internal/catalog"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var translationColumns = []string{"t.id", "t.locale", "t.key", "t.content", "t.created_at", "t.updated_at"}

const (
	hasTagExpr    = "EXISTS (SELECT 1 FROM translation_tag tt JOIN tags g ON g.id = tt.tag_id WHERE tt.translation_id = t.id AND g.name = ?)"
	hasAnyTagExpr = "EXISTS (SELECT 1 FROM translation_tag tt JOIN tags g ON g.id = tt.tag_id WHERE tt.translation_id = t.id AND g.name = ANY(?))"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds a LIKE pattern matching s literally anywhere.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// filterList applies the listing filter to b.
func filterList(b sq.SelectBuilder, f catalog.ListFilter) sq.SelectBuilder {
	if f.Locale != "" {
		b = b.Where(sq.Eq{"t.locale": f.Locale})
	}
	if f.Tag != "" {
		b = b.Where(sq.Expr(hasTagExpr, f.Tag))
	}
	if f.Key != "" {
		b = b.Where(sq.Like{"t.key": contains(f.Key)})
	}
	if f.Content != "" {
		b = b.Where(sq.Like{"t.content": contains(f.Content)})
	}
	return b
}

// filterExport applies the export filter to b. Tags use OR semantics.
func filterExport(b sq.SelectBuilder, f catalog.ExportFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"t.locale": f.Locale})
	if f.Tags != nil {
		b = b.Where(sq.Expr(hasAnyTagExpr, f.Tags))
	}
	return b
}

func listQuery(f catalog.ListFilter, limit, offset int) sq.SelectBuilder {
	return filterList(psql.Select(translationColumns...).From("translations t"), f).
		OrderBy("t.id").
		Limit(uint64(max(limit, 0))).
		Offset(uint64(max(offset, 0)))
}

func countQuery(f catalog.ListFilter) sq.SelectBuilder {
	return filterList(psql.Select("count(*)").From("translations t"), f)
}

func lastModifiedQuery(f catalog.ExportFilter) sq.SelectBuilder {
	return filterExport(psql.Select("max(t.updated_at)").From("translations t"), f)
}

func projectQuery(f catalog.ExportFilter) sq.SelectBuilder {
	return filterExport(psql.Select("t.key", "t.content").From("translations t"), f).OrderBy("t.id")
}

func updateQuery(id int64, in catalog.UpdateFields) sq.UpdateBuilder {
	b := psql.Update("translations").Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": id})
	var changed sq.Or
	set := func(col string, v *string) {
		if v == nil {
			return
		}
		b = b.Set(col, *v)
		changed = append(changed, sq.Expr(col+" IS DISTINCT FROM ?", *v))
	}
	set("locale", in.Locale)
	set("key", in.Key)
	set("content", in.Content)
	return b.Where(changed).Suffix("RETURNING id, locale, key, content, created_at, updated_at")
}
