package repository

import (
	"fmt"
	"strings"

	"medicine-catalog/internal/database"
	"medicine-catalog/internal/model"
)

const medicineColumns = `id, name, price, discount_price, quantity, manufacturer, image_url, created_at, updated_at`

// dialect holds the SQL differences between the supported backends.
type dialect struct {
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
	// lower names a case-folding function that agrees with strings.ToLower.
	lower string
}

var (
	postgresDialect = dialect{
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		lower:       "LOWER",
	}
	// SQLite's built-in LOWER folds ASCII only.
	sqliteDialect = dialect{
		placeholder: func(int) string { return "?" },
		lower:       database.SQLiteLowerFunc,
	}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListQuery renders the SELECT for a listing request. Sort directives
// apply in name, price, quantity order; insertion order breaks ties.
func buildListQuery(q model.ListQuery, d dialect) (string, []any) {
	var (
		where []string
		args  []any
	)

	if q.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(q.Search))+"%")
		where = append(where, fmt.Sprintf(`%s(name) LIKE %s ESCAPE '\'`, d.lower, d.placeholder(len(args))))
	}

	if q.Manufacturer != "" {
		args = append(args, q.Manufacturer)
		where = append(where, fmt.Sprintf("manufacturer = %s", d.placeholder(len(args))))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(medicineColumns)
	sb.WriteString(" FROM medicines")

	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	order := make([]string, 0, 5)
	for _, f := range q.SortFields() {
		dir := "ASC"
		if f.Direction == model.SortDesc {
			dir = "DESC"
		}
		order = append(order, f.Column+" "+dir)
	}
	order = append(order, "created_at ASC", "id ASC")

	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(order, ", "))

	return sb.String(), args
}
