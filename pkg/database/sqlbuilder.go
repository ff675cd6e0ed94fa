package database

import (
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
)

// postgres caps a statement at 65535 bind parameters
const maxBindParams = 65535

// Ident quotes a table or column name. Dotted table names are quoted per
// part so "crm.accounts" addresses schema crm.
func Ident(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return sqlbuilder.Escape(strings.Join(parts, "."))
}

func quoteColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = sqlbuilder.Escape(pq.QuoteIdentifier(c))
	}
	return out
}

// BuildSelect reads every column of a table, optionally ordered
func BuildSelect(table string, orderBy ...string) string {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("*").From(Ident(table))
	if len(orderBy) > 0 {
		sb.OrderBy(quoteColumns(orderBy)...)
	}
	query, _ := sb.Build()
	return query
}

// BuildCreateTable creates the table with one TEXT column per header cell
func BuildCreateTable(table string, columns []string) string {
	ctb := sqlbuilder.PostgreSQL.NewCreateTableBuilder()
	ctb.CreateTable(Ident(table)).IfNotExists()
	for _, c := range quoteColumns(columns) {
		ctb.Define(c, "TEXT")
	}
	query, _ := ctb.Build()
	return query
}

// BuildDelete empties the table
func BuildDelete(table string) string {
	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom(Ident(table))
	query, _ := db.Build()
	return query
}

// Statement is a query plus its bind arguments
type Statement struct {
	Query string
	Args  []any
}

// BuildInserts splits rows into multi-row INSERT statements of at most
// batchSize rows, further capped by the bind parameter limit
func BuildInserts(table string, columns []string, rows [][]string, batchSize int) []Statement {
	if len(rows) == 0 || len(columns) == 0 {
		return nil
	}
	if limit := maxBindParams / len(columns); batchSize <= 0 || batchSize > limit {
		batchSize = limit
	}

	quoted := quoteColumns(columns)
	stmts := make([]Statement, 0, len(rows)/batchSize+1)
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto(Ident(table)).Cols(quoted...)
		for _, row := range rows[start:end] {
			values := make([]any, len(row))
			for i, v := range row {
				values[i] = v
			}
			ib.Values(values...)
		}

		query, args := ib.Build()
		stmts = append(stmts, Statement{Query: query, Args: args})
	}
	return stmts
}
