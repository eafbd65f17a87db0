package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Column sets the loaders require. The catalog csv carries one display
// column on top of these, the annotation csv whatever Ensembl dumps; both
// are matched by header name and anything unknown is dropped.
var (
	catalogColumns    = []string{"data_id", "species", "tissue", "cell_line", "condition"}
	annotationColumns = []string{"gene_id", "symbol", "gene_biotype"}
)

// LoadAll populates the catalog and annotation tables from the csv files.
// Both files load in parallel; any failure is returned and should be treated
// as fatal since the server cannot run without them.
func (depot *DepotDB) LoadAll() error {

	var g errgroup.Group

	g.Go(func() error {
		return loadCSVTable(depot, depot.catalogPath(), "datasets", catalogColumns)
	})

	g.Go(func() error {
		return loadCSVTable(depot, depot.annotationsPath(), "gene_annotations", annotationColumns)
	})

	return g.Wait()
}

// indexHeader maps wanted column names to their position in the csv header.
func indexHeader(header []string, wanted []string) ([]int, error) {

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	idx := make([]int, 0, len(wanted))
	for _, w := range wanted {
		i, ok := pos[w]
		if !ok {
			return nil, fmt.Errorf("missing column %q", w)
		}
		idx = append(idx, i)
	}

	return idx, nil
}

func loadCSVTable(depot *DepotDB, file string, table string, columns []string) error {

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", file, err)
	}

	idx, err := indexHeader(header, columns)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	tx, err := depot.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin load tx: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)

	stm, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", table, err)
	}
	defer stm.Close()

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("%s line %d: %w", file, line, err)
		}

		args := make([]interface{}, 0, len(idx))
		for _, i := range idx {
			if i >= len(record) {
				return fmt.Errorf("%s line %d: short record", file, line)
			}
			args = append(args, strings.TrimSpace(record[i]))
		}

		if _, err := stm.Exec(args...); err != nil {
			return fmt.Errorf("%s line %d: %w", file, line, err)
		}
	}

	return tx.Commit()
}
