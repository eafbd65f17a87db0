package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/nadepot/nadepot/internal/util"

	_ "modernc.org/sqlite"
)

// Defining possible error
var ErrDatasetNotFound = errors.New("dataset file does not exist")

// DepotDB couples the in-memory catalog database with the on-disk data
// layout:
//
//	<Dir>/catalog.csv
//	<Dir>/annotations.csv
//	<Dir>/datasets/<data_id>.csv
//
// The sqlite side holds only the catalog and the gene annotations; dataset
// files stay on disk and are staged per request.
type DepotDB struct {
	DB  *sql.DB
	Dir string
}

func NewDepotDB(dir string) (*DepotDB, error) {

	required := []string{
		path.Join(dir, "catalog.csv"),
		path.Join(dir, "annotations.csv"),
	}

	if !util.DirExists(dir) {
		return nil, fmt.Errorf("%w: %s", os.ErrNotExist, dir)
	}

	if !util.DirExists(path.Join(dir, "datasets")) {
		return nil, fmt.Errorf("%w: %s", os.ErrNotExist, path.Join(dir, "datasets"))
	}

	var errs error

	for _, f := range required {
		if !util.FileExists(f) {
			errs = fmt.Errorf("%w: %s", os.ErrNotExist, f)
		}
	}

	if errs != nil {
		return nil, errs
	}

	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory db: %w", err)
	}

	// Every pool connection would get its own empty :memory: database.
	sqldb.SetMaxOpenConns(1)

	if err := createSchema(sqldb); err != nil {
		sqldb.Close()
		return nil, err
	}

	return &DepotDB{
		DB:  sqldb,
		Dir: dir,
	}, nil
}

func createSchema(sqldb *sql.DB) error {

	schema := `
		CREATE TABLE datasets (
			data_id   TEXT PRIMARY KEY,
			species   TEXT NOT NULL,
			tissue    TEXT NOT NULL,
			cell_line TEXT NOT NULL,
			condition TEXT NOT NULL,
			UNIQUE (species, tissue, cell_line, condition)
		);
		CREATE TABLE gene_annotations (
			gene_id      TEXT PRIMARY KEY,
			symbol       TEXT NOT NULL,
			gene_biotype TEXT NOT NULL
		);
	`

	if _, err := sqldb.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (depot *DepotDB) catalogPath() string {
	return path.Join(depot.Dir, "catalog.csv")
}

func (depot *DepotDB) annotationsPath() string {
	return path.Join(depot.Dir, "annotations.csv")
}

// DatasetPath resolves data_id to its on-disk csv file.
func (depot *DepotDB) DatasetPath(dataID string) string {
	return path.Join(depot.Dir, "datasets", dataID+".csv")
}

func (depot *DepotDB) HasDataset(dataID string) bool {
	return util.FileExists(depot.DatasetPath(dataID))
}

// OpenDataset opens the raw measurement file for reading. The caller owns
// the returned reader.
func (depot *DepotDB) OpenDataset(dataID string) (io.ReadCloser, error) {

	f, err := os.Open(depot.DatasetPath(dataID))

	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, dataID)
	}

	return f, nil
}

func (depot *DepotDB) Close() error {
	return depot.DB.Close()
}
