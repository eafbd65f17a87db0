package model

// Join and aggregation for a submitted selection. The measurement file is
// staged into a temporary table and joined against the annotation table in
// sql; everything derived is discarded with the transaction.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nadepot/nadepot/logger"
	depotdb "github.com/nadepot/nadepot/pkg/db"
	"github.com/nadepot/nadepot/pkg/handler/request"
)

// Genes absent from the annotation table keep their measurements and fall
// into this biotype bucket.
const UnannotatedBiotype = "unannotated"

func stageMeasurements(tx *sql.Tx, measurements []*Measurement) error {

	if _, err := tx.Exec(`
		CREATE TEMPORARY TABLE measurements (
			gene_id TEXT,
			logcpm  REAL,
			log2fc  REAL,
			fdr     REAL
		)`); err != nil {
		return fmt.Errorf("create measurements temp table: %w", err)
	}

	stm, err := tx.Prepare(`INSERT INTO measurements (gene_id, logcpm, log2fc, fdr) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare measurement insert: %w", err)
	}
	defer stm.Close()

	for _, m := range measurements {
		if _, err := stm.Exec(m.GeneID, m.LogCPM, m.Log2FC, m.FDR); err != nil {
			return fmt.Errorf("populate measurements: %w", err)
		}
	}

	return nil
}

func orderColumn(field request.ResultField) string {
	switch field {
	case request.ResultFieldSymbol:
		return "symbol"
	case request.ResultFieldBiotype:
		return "gene_biotype"
	case request.ResultFieldLogCPM:
		return "logcpm"
	case request.ResultFieldLog2FC:
		return "log2fc"
	case request.ResultFieldFDR:
		return "fdr"
	default:
		return "gene_id"
	}
}

func queryJoinedRows(tx *sql.Tx, tableReq request.ResultTableRequest) ([]*ResultRow, error) {

	QTPL := `
		SELECT
			m.gene_id AS gene_id,
			COALESCE(ga.symbol, '') AS symbol,
			COALESCE(ga.gene_biotype, '` + UnannotatedBiotype + `') AS gene_biotype,
			ROUND(m.logcpm, 3) AS logcpm,
			ROUND(m.log2fc, 3) AS log2fc,
			ROUND(m.fdr, 3) AS fdr
		FROM measurements m
		LEFT JOIN gene_annotations ga ON m.gene_id = ga.gene_id
		WHERE (m.gene_id LIKE ? OR COALESCE(ga.symbol, '') LIKE ?)
		ORDER BY {{ORDER_BY}} {{ORDER_DIR}}
		LIMIT ? OFFSET ?
	`

	dir := "ASC"
	if strings.EqualFold(tableReq.Order_Dir, "desc") {
		dir = "DESC"
	}

	qstring := strings.ReplaceAll(QTPL, "{{ORDER_BY}}", orderColumn(tableReq.Order_By))
	qstring = strings.ReplaceAll(qstring, "{{ORDER_DIR}}", dir)

	like := "%" + tableReq.Search_For + "%"
	limit := tableReq.Page_Size
	offset := (tableReq.Page - 1) * tableReq.Page_Size

	rows, err := tx.Query(qstring, like, like, limit, offset)
	if err != nil {
		logger.Error("Join query execution failed.")
		return nil, fmt.Errorf("join query execution failed: %w", err)
	}
	defer rows.Close()

	results := make([]*ResultRow, 0, limit)

	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.GeneID, &r.Symbol, &r.Biotype, &r.LogCPM, &r.Log2FC, &r.FDR); err != nil {
			return nil, fmt.Errorf("failed to scan joined row: %w", err)
		}
		results = append(results, &r)
	}

	return results, rows.Err()
}

func countJoinedRows(tx *sql.Tx, tableReq request.ResultTableRequest) (int, error) {

	qstring := `
		SELECT COUNT(*)
		FROM measurements m
		LEFT JOIN gene_annotations ga ON m.gene_id = ga.gene_id
		WHERE (m.gene_id LIKE ? OR COALESCE(ga.symbol, '') LIKE ?)
	`

	like := "%" + tableReq.Search_For + "%"

	var count int
	if err := tx.QueryRow(qstring, like, like).Scan(&count); err != nil {
		return -1, fmt.Errorf("count query execution failed: %w", err)
	}

	return count, nil
}

// queryBreakdown aggregates the staged dataset by biotype. The table filter
// does not apply here; the chart always reflects the whole selection.
func queryBreakdown(tx *sql.Tx) ([]BiotypeShare, error) {

	qstring := `
		SELECT
			COALESCE(ga.gene_biotype, '` + UnannotatedBiotype + `') AS gene_biotype,
			COUNT(*) AS n
		FROM measurements m
		LEFT JOIN gene_annotations ga ON m.gene_id = ga.gene_id
		GROUP BY gene_biotype
		ORDER BY n DESC, gene_biotype
	`

	rows, err := tx.Query(qstring)
	if err != nil {
		return nil, fmt.Errorf("breakdown query execution failed: %w", err)
	}
	defer rows.Close()

	shares := make([]BiotypeShare, 0, 10)
	total := 0

	for rows.Next() {
		var s BiotypeShare
		if err := rows.Scan(&s.Biotype, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		total += s.Count
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Percentage with one decimal, summing to 100 within rounding tolerance
	for i := range shares {
		shares[i].Percent = math.Round(float64(shares[i].Count)*1000.0/float64(total)) / 10.0
	}

	return shares, nil
}

// LoadResult resolves a selection, stages its dataset file, and returns the
// joined table page plus the biotype breakdown. A nil result with nil error
// means the selection matched no catalog row. Repeated identical selections
// recompute from the file every time.
func LoadResult(sqldb *sql.DB, depot *depotdb.DepotDB, sel Selection, tableReq request.ResultTableRequest) (*Result, error) {

	entry, err := Resolve(sqldb, sel)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	f, err := depot.OpenDataset(entry.DataID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	measurements, err := ParseMeasurements(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", entry.DataID, err)
	}

	if tableReq.Page < 1 {
		tableReq.Page = 1
	}
	if tableReq.Page_Size < 1 {
		tableReq.Page_Size = 100
	}

	// Time out
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	conn, connErr := sqldb.Conn(ctx)

	if connErr != nil {
		return nil, fmt.Errorf("fail to get a connection %w", connErr)
	}

	defer conn.Close()

	tx, txErr := conn.BeginTx(ctx, nil)

	if txErr != nil {
		return nil, fmt.Errorf("fail to begin tx %w", txErr)
	}

	// Rollback drops the temp table along with everything staged.
	defer tx.Rollback()

	if err := stageMeasurements(tx, measurements); err != nil {
		return nil, err
	}

	joined, err := queryJoinedRows(tx, tableReq)
	if err != nil {
		return nil, err
	}

	total, err := countJoinedRows(tx, tableReq)
	if err != nil {
		return nil, err
	}

	breakdown, err := queryBreakdown(tx)
	if err != nil {
		return nil, err
	}

	return &Result{
		Entry:     entry,
		Rows:      joined,
		Breakdown: breakdown,
		TotalRows: total,
	}, nil
}

// LoadBreakdown is the chart-only variant of LoadResult; it skips the table
// projection entirely.
func LoadBreakdown(sqldb *sql.DB, depot *depotdb.DepotDB, sel Selection) (*CatalogEntry, []BiotypeShare, error) {

	entry, err := Resolve(sqldb, sel)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return nil, nil, nil
	}

	f, err := depot.OpenDataset(entry.DataID)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	measurements, err := ParseMeasurements(f)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", entry.DataID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	conn, connErr := sqldb.Conn(ctx)

	if connErr != nil {
		return nil, nil, fmt.Errorf("fail to get a connection %w", connErr)
	}

	defer conn.Close()

	tx, txErr := conn.BeginTx(ctx, nil)

	if txErr != nil {
		return nil, nil, fmt.Errorf("fail to begin tx %w", txErr)
	}

	defer tx.Rollback()

	if err := stageMeasurements(tx, measurements); err != nil {
		return nil, nil, err
	}

	breakdown, err := queryBreakdown(tx)
	if err != nil {
		return nil, nil, err
	}

	return entry, breakdown, nil
}
