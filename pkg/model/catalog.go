package model

// Model for the dataset catalog and the cascading selection filter.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// queryStrings runs a single-column query and collects the values.
func queryStrings(db *sql.DB, qstring string, args ...interface{}) ([]string, error) {

	ctx := context.TODO()

	stm, err := db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]string, 0, 10)

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan option row: %w", err)
		}
		results = append(results, v)
	}

	return results, rows.Err()
}

func Species(db *sql.DB) ([]string, error) {
	return queryStrings(db,
		`SELECT DISTINCT species FROM datasets ORDER BY species`)
}

func Tissues(db *sql.DB, species string) ([]string, error) {
	return queryStrings(db,
		`SELECT DISTINCT tissue FROM datasets WHERE species = ? ORDER BY tissue`,
		species)
}

func CellLines(db *sql.DB, species, tissue string) ([]string, error) {
	return queryStrings(db,
		`SELECT DISTINCT cell_line FROM datasets WHERE species = ? AND tissue = ? ORDER BY cell_line`,
		species, tissue)
}

func Conditions(db *sql.DB, species, tissue, cellLine string) ([]string, error) {
	return queryStrings(db,
		`SELECT DISTINCT condition FROM datasets
		 WHERE species = ? AND tissue = ? AND cell_line = ? ORDER BY condition`,
		species, tissue, cellLine)
}

// OptionsFor builds the choices each select may offer given the fields
// chosen so far. Downstream slices stay nil until their upstream field is
// set, so a change upstream always resets what is offered below it.
func OptionsFor(db *sql.DB, sel Selection) (*SelectionOptions, error) {

	opts := &SelectionOptions{}

	var err error

	opts.Species, err = Species(db)
	if err != nil {
		return nil, err
	}

	if sel.Species == "" {
		return opts, nil
	}

	opts.Tissues, err = Tissues(db, sel.Species)
	if err != nil {
		return nil, err
	}

	if sel.Tissue == "" {
		return opts, nil
	}

	opts.CellLines, err = CellLines(db, sel.Species, sel.Tissue)
	if err != nil {
		return nil, err
	}

	if sel.CellLine == "" {
		return opts, nil
	}

	opts.Conditions, err = Conditions(db, sel.Species, sel.Tissue, sel.CellLine)
	if err != nil {
		return nil, err
	}

	return opts, nil
}

// Resolve returns the zero-or-one catalog row matching a complete
// selection. A nil entry with a nil error means no dataset matched.
func Resolve(db *sql.DB, sel Selection) (*CatalogEntry, error) {

	if !sel.Complete() {
		return nil, nil
	}

	ctx := context.TODO()

	qstring := `
		SELECT data_id, species, tissue, cell_line, condition
		FROM datasets
		WHERE species = ? AND tissue = ? AND cell_line = ? AND condition = ?
	`

	var entry CatalogEntry

	err := db.QueryRowContext(ctx, qstring,
		sel.Species, sel.Tissue, sel.CellLine, sel.Condition).Scan(
		&entry.DataID, &entry.Species, &entry.Tissue, &entry.CellLine, &entry.Condition)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve selection: %w", err)
	}

	return &entry, nil
}

// AllCatalog lists every catalog row, ordered for stable display.
func AllCatalog(db *sql.DB) ([]*CatalogEntry, error) {

	ctx := context.TODO()

	qstring := `
		SELECT data_id, species, tissue, cell_line, condition
		FROM datasets
		ORDER BY species, tissue, cell_line, condition
	`

	rows, err := db.QueryContext(ctx, qstring)
	if err != nil {
		return nil, fmt.Errorf("catalog query execution failed: %w", err)
	}
	defer rows.Close()

	results := make([]*CatalogEntry, 0, 50)

	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.DataID, &e.Species, &e.Tissue, &e.CellLine, &e.Condition); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		results = append(results, &e)
	}

	return results, rows.Err()
}

// CatalogByDataIDs fetches catalog rows for an export selection. IDs with no
// catalog row are simply absent from the result, so the caller can compare
// lengths to detect unknown IDs.
func CatalogByDataIDs(db *sql.DB, dataIDs []string) ([]*CatalogEntry, error) {

	if len(dataIDs) == 0 {
		return []*CatalogEntry{}, nil
	}

	ctx := context.TODO()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dataIDs)), ",")
	qstring := fmt.Sprintf(`
		SELECT data_id, species, tissue, cell_line, condition
		FROM datasets
		WHERE data_id IN (%s)
		ORDER BY data_id
	`, placeholders)

	args := make([]interface{}, 0, len(dataIDs))
	for _, id := range dataIDs {
		args = append(args, id)
	}

	rows, err := db.QueryContext(ctx, qstring, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	defer rows.Close()

	results := make([]*CatalogEntry, 0, len(dataIDs))

	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.DataID, &e.Species, &e.Tissue, &e.CellLine, &e.Condition); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		results = append(results, &e)
	}

	return results, rows.Err()
}

func CountCatalog(db *sql.DB) (int, error) {

	ctx := context.TODO()

	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(data_id) FROM datasets`).Scan(&count)

	if err != nil {
		return -1, err
	}

	return count, nil
}
