package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-menu-service/internal/domain"
)

func TestListQuery_JoinsEveryDisplayLabel(t *testing.T) {
	got := listQuery(domain.ProductIngredients)
	assert.Equal(t,
		"SELECT t.id, t.producto_id, t.ingrediente_id, t.cantidad_usada, t.created_at, t.updated_at, "+
			"j0.nombre AS producto, j1.nombre AS ingrediente FROM producto_ingrediente t "+
			"LEFT JOIN productos j0 ON j0.id = t.producto_id "+
			"LEFT JOIN ingredientes j1 ON j1.id = t.ingrediente_id ORDER BY t.id DESC",
		got)
}

func TestGetQuery_FiltersByID(t *testing.T) {
	assert.Equal(t,
		"SELECT t.id, t.nombre, t.perecedero, t.created_at, t.updated_at FROM ingredientes t WHERE t.id = $1",
		getQuery(domain.Ingredients))
}

func TestInsertQuery(t *testing.T) {
	query, args, err := insertQuery(domain.Ingredients, []domain.Value{
		{Column: "nombre", Value: "Tomate"},
		{Column: "perecedero", Value: int64(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO ingredientes (nombre, perecedero) VALUES ($1, $2) RETURNING id", query)
	assert.Equal(t, []any{"Tomate", int64(1)}, args)
}

func TestInsertQuery_NotWritable(t *testing.T) {
	_, _, err := insertQuery(domain.Categories, []domain.Value{{Column: "nombre; DROP TABLE categorias", Value: "x"}})
	require.Error(t, err)
}

func TestUpdateQuery(t *testing.T) {
	tests := []struct {
		name      string
		values    []domain.Value
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "single field",
			values:    []domain.Value{{Column: "precio", Value: "50"}},
			wantQuery: "UPDATE productos SET precio = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
			wantArgs:  []any{"50", int64(4)},
		},
		{
			name: "several fields keep their order",
			values: []domain.Value{
				{Column: "nombre", Value: "Doble"},
				{Column: "descripcion", Value: nil},
				{Column: "disponible", Value: int64(0)},
			},
			wantQuery: "UPDATE productos SET nombre = $1, descripcion = $2, disponible = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $4",
			wantArgs:  []any{"Doble", nil, int64(0), int64(4)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := updateQuery(domain.Products, 4, tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.wantQuery, query)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestUpdateQuery_Errors(t *testing.T) {
	_, _, err := updateQuery(domain.Products, 1, nil)
	assert.Error(t, err, "empty SET clause")

	_, _, err = updateQuery(domain.Products, 1, []domain.Value{{Column: "created_at", Value: "now"}})
	assert.Error(t, err, "server-assigned columns are not writable")
}

func TestDeleteQuery(t *testing.T) {
	assert.Equal(t, "DELETE FROM producto_ingrediente WHERE id = $1", deleteQuery(domain.ProductIngredients))
}
