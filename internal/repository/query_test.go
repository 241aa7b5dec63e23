package repository

import (
	"testing"

	"medicine-catalog/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        model.ListQuery
		d            dialect
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:        "No filters or sort",
			query:       model.ListQuery{},
			d:           postgresDialect,
			expectedSQL: "SELECT " + medicineColumns + " FROM medicines ORDER BY created_at ASC, id ASC",
		},
		{
			name:         "Search and manufacturer with dollar placeholders",
			query:        model.ListQuery{Search: "Para", Manufacturer: "Acme"},
			d:            postgresDialect,
			expectedSQL:  "SELECT " + medicineColumns + ` FROM medicines WHERE LOWER(name) LIKE $1 ESCAPE '\' AND manufacturer = $2 ORDER BY created_at ASC, id ASC`,
			expectedArgs: []any{"%para%", "Acme"},
		},
		{
			name:         "Manufacturer only with question placeholders",
			query:        model.ListQuery{Manufacturer: "Acme"},
			d:            sqliteDialect,
			expectedSQL:  "SELECT " + medicineColumns + " FROM medicines WHERE manufacturer = ? ORDER BY created_at ASC, id ASC",
			expectedArgs: []any{"Acme"},
		},
		{
			name: "Multi-key sort in fixed field order",
			query: model.ListQuery{
				SortByQuantity: "quantity:desc",
				SortByPrice:    "price:asc",
				SortByName:     "name:desc",
			},
			d:           postgresDialect,
			expectedSQL: "SELECT " + medicineColumns + " FROM medicines ORDER BY name DESC, price ASC, quantity DESC, created_at ASC, id ASC",
		},
		{
			name:         "Wildcards in search are matched literally",
			query:        model.ListQuery{Search: `50%_off\`},
			d:            sqliteDialect,
			expectedSQL:  "SELECT " + medicineColumns + ` FROM medicines WHERE unicode_lower(name) LIKE ? ESCAPE '\' ORDER BY created_at ASC, id ASC`,
			expectedArgs: []any{`%50\%\_off\\%`},
		},
		{
			name:         "Search pattern is folded beyond ASCII",
			query:        model.ListQuery{Search: "ÉCHINACÉE"},
			d:            sqliteDialect,
			expectedSQL:  "SELECT " + medicineColumns + ` FROM medicines WHERE unicode_lower(name) LIKE ? ESCAPE '\' ORDER BY created_at ASC, id ASC`,
			expectedArgs: []any{"%échinacée%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildListQuery(tt.query, tt.d)

			assert.Equal(t, tt.expectedSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
