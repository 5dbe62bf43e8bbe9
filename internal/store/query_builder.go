package store

import (
	"fmt"
	"strings"

	"restaurant-menu-service/internal/domain"
)

// Identifiers in these queries come from domain.Resource definitions only.
// Values are always bound as $n placeholders.

const baseAlias = "t"

func selectQuery(res *domain.Resource) string {
	cols := res.Columns()
	projection := make([]string, 0, len(cols)+len(res.Joins))
	for _, c := range cols {
		projection = append(projection, baseAlias+"."+c)
	}

	var joins strings.Builder
	for i, j := range res.Joins {
		alias := fmt.Sprintf("j%d", i)
		projection = append(projection, fmt.Sprintf("%s.%s AS %s", alias, j.LabelColumn, j.Alias))
		fmt.Fprintf(&joins, " LEFT JOIN %s %s ON %s.id = %s.%s", j.Table, alias, alias, baseAlias, j.ForeignKey)
	}

	return fmt.Sprintf("SELECT %s FROM %s %s%s",
		strings.Join(projection, ", "), res.Table, baseAlias, joins.String())
}

func listQuery(res *domain.Resource) string {
	return selectQuery(res) + " ORDER BY " + baseAlias + ".id DESC"
}

func getQuery(res *domain.Resource) string {
	return selectQuery(res) + " WHERE " + baseAlias + ".id = $1"
}

func insertQuery(res *domain.Resource, values []domain.Value) (string, []any, error) {
	if len(values) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING id", res.Table), nil, nil
	}
	cols := make([]string, len(values))
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		if !res.Writable(v.Column) {
			return "", nil, fmt.Errorf("store: column %q is not writable on %s", v.Column, res.Table)
		}
		cols[i] = v.Column
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = v.Value
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		res.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return query, args, nil
}

// updateQuery sets exactly the given columns and refreshes updated_at.
func updateQuery(res *domain.Resource, id int64, values []domain.Value) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("store: no columns to update on %s", res.Table)
	}
	sets := make([]string, 0, len(values)+1)
	args := make([]any, 0, len(values)+1)
	argID := 1
	for _, v := range values {
		if !res.Writable(v.Column) {
			return "", nil, fmt.Errorf("store: column %q is not writable on %s", v.Column, res.Table)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", v.Column, argID))
		args = append(args, v.Value)
		argID++
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", res.Table, strings.Join(sets, ", "), argID)
	return query, args, nil
}

func deleteQuery(res *domain.Resource) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = $1", res.Table)
}
