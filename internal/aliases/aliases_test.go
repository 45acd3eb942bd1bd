// internal/aliases/aliases_test.go
package aliases

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownAliases(t *testing.T) {
	table := NewTable()

	tests := []struct {
		surface  string
		expected string
	}{
		{"Bombay", "Mumbai"},
		{"bombay", "Mumbai"},
		{"NYC", "New York"},
		{"jfk", "New York"},
		{"  London ", "London"},
		{"bengaluru", "Bangalore"},
		{"BOM", "Mumbai"},
	}

	for _, tt := range tests {
		t.Run(tt.surface, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Resolve(tt.surface))
		})
	}
}

func TestResolve_UnknownReturnsEmpty(t *testing.T) {
	table := NewTable()
	assert.Equal(t, "", table.Resolve("atlantis"))
	assert.Equal(t, "", table.Resolve(""))
}

func TestSurfaces_LongestFirst(t *testing.T) {
	table := NewTableFrom(map[string]string{
		"york":     "York",
		"new york": "New York",
		"ny":       "New York",
	})

	surfaces := table.Surfaces()
	require.Len(t, surfaces, 3)
	assert.Equal(t, "new york", surfaces[0])
}

func TestMerge_OverridesAndExtends(t *testing.T) {
	table := NewTableFrom(map[string]string{"goa": "Goa"})
	table.Merge(map[string]string{
		"goa":   "Panaji",
		"kochi": "Kochi",
	})

	assert.Equal(t, "Panaji", table.Resolve("goa"))
	assert.Equal(t, "Kochi", table.Resolve("KOCHI"))
	assert.Equal(t, 2, table.Len())
}

func TestLoadFromDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"surface", "canonical"}).
		AddRow("blore", "Bangalore").
		AddRow("sf", "San Francisco").
		AddRow("", "Ignored")

	mock.ExpectQuery(`SELECT surface, canonical FROM city_aliases`).WillReturnRows(rows)

	table := NewTable()
	loaded, err := LoadFromDB(context.Background(), db, table)
	require.NoError(t, err)

	assert.Equal(t, 2, loaded)
	assert.Equal(t, "Bangalore", table.Resolve("blore"))
	assert.Equal(t, "San Francisco", table.Resolve("sf"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFromDB_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT surface, canonical FROM city_aliases`).
		WillReturnError(assert.AnError)

	table := NewTable()
	before := table.Len()
	_, err = LoadFromDB(context.Background(), db, table)

	assert.Error(t, err)
	assert.Equal(t, before, table.Len(), "table must be untouched on load failure")
}
