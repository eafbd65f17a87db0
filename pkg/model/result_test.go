package model

import (
	"math"
	"strings"
	"testing"

	"github.com/nadepot/nadepot/pkg/handler/request"
	"github.com/stretchr/testify/require"
)

func defaultTableRequest() request.ResultTableRequest {
	return request.ResultTableRequest{
		Order_By:  request.ResultFieldGeneID,
		Order_Dir: "asc",
		Page:      1,
		Page_Size: 100,
	}
}

func humanLiverControl() Selection {
	return Selection{Species: "human", Tissue: "liver", CellLine: "HepG2", Condition: "control"}
}

func TestLoadResultJoin(t *testing.T) {

	depot := newTestDepot(t)

	result, err := LoadResult(depot.DB, depot, humanLiverControl(), defaultTableRequest())
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "GSE001", result.Entry.DataID)
	require.Equal(t, 4, result.TotalRows)
	require.Len(t, result.Rows, 4)

	// Default ordering is gene_id ascending.
	first := result.Rows[0]
	require.Equal(t, "ENSG0001", first.GeneID)
	require.Equal(t, "GAPDH", first.Symbol)
	require.Equal(t, "protein_coding", first.Biotype)

	// Rounded to 3 decimals, matching the source values before rounding.
	require.Equal(t, 5.123, first.LogCPM)
	require.Equal(t, 1.235, first.Log2FC)
	require.Equal(t, 0.0, first.FDR)
	require.InDelta(t, 5.12345, first.LogCPM, 0.0005)
	require.InDelta(t, 1.23456, first.Log2FC, 0.0005)
	require.InDelta(t, 0.00012, first.FDR, 0.0005)
}

func TestLoadResultBreakdownSumsTo100(t *testing.T) {

	depot := newTestDepot(t)

	selections := []Selection{
		humanLiverControl(),
		{Species: "human", Tissue: "liver", CellLine: "HepG2", Condition: "NMN"},
	}

	for _, sel := range selections {
		result, err := LoadResult(depot.DB, depot, sel, defaultTableRequest())
		require.NoError(t, err)
		require.NotNil(t, result)

		sum := 0.0
		for _, share := range result.Breakdown {
			require.Greater(t, share.Count, 0)
			sum += share.Percent
		}
		require.LessOrEqual(t, math.Abs(sum-100.0), 0.15, "biotype percentages should sum to 100")
	}
}

func TestLoadResultUnannotatedFallback(t *testing.T) {

	depot := newTestDepot(t)

	sel := Selection{Species: "human", Tissue: "liver", CellLine: "HepG2", Condition: "NMN"}

	result, err := LoadResult(depot.DB, depot, sel, defaultTableRequest())
	require.NoError(t, err)
	require.NotNil(t, result)

	var unknown *ResultRow
	for _, row := range result.Rows {
		if row.GeneID == "ENSGX999" {
			unknown = row
		}
	}

	require.NotNil(t, unknown, "measurement without annotation must survive the join")
	require.Empty(t, unknown.Symbol)
	require.Equal(t, UnannotatedBiotype, unknown.Biotype)

	biotypes := make([]string, 0, len(result.Breakdown))
	for _, share := range result.Breakdown {
		biotypes = append(biotypes, share.Biotype)
	}
	require.Contains(t, biotypes, UnannotatedBiotype)
}

func TestLoadResultSorting(t *testing.T) {

	depot := newTestDepot(t)

	tableReq := defaultTableRequest()
	tableReq.Order_By = request.ResultFieldLogCPM
	tableReq.Order_Dir = "desc"

	result, err := LoadResult(depot.DB, depot, humanLiverControl(), tableReq)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "ENSG0003", result.Rows[0].GeneID)

	for i := 1; i < len(result.Rows); i++ {
		require.GreaterOrEqual(t, result.Rows[i-1].LogCPM, result.Rows[i].LogCPM)
	}
}

func TestLoadResultSortByGeneID(t *testing.T) {

	depot := newTestDepot(t)

	// gene_id appears in both joined tables; ordering by it must not
	// trip over the annotation side.
	tableReq := defaultTableRequest()
	tableReq.Order_By = request.ResultFieldGeneID

	result, err := LoadResult(depot.DB, depot, humanLiverControl(), tableReq)
	require.NoError(t, err)
	require.NotNil(t, result)
	for i := 1; i < len(result.Rows); i++ {
		require.LessOrEqual(t, result.Rows[i-1].GeneID, result.Rows[i].GeneID)
	}

	tableReq.Order_Dir = "desc"
	result, err = LoadResult(depot.DB, depot, humanLiverControl(), tableReq)
	require.NoError(t, err)
	for i := 1; i < len(result.Rows); i++ {
		require.GreaterOrEqual(t, result.Rows[i-1].GeneID, result.Rows[i].GeneID)
	}
}

func TestLoadResultFilter(t *testing.T) {

	depot := newTestDepot(t)

	// Symbol substring
	tableReq := defaultTableRequest()
	tableReq.Search_For = "MALAT"

	result, err := LoadResult(depot.DB, depot, humanLiverControl(), tableReq)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalRows)
	require.Equal(t, "ENSG0002", result.Rows[0].GeneID)

	// Gene id substring; breakdown still covers the whole dataset.
	tableReq.Search_For = "ENSG000"
	result, err = LoadResult(depot.DB, depot, humanLiverControl(), tableReq)
	require.NoError(t, err)
	require.Equal(t, 4, result.TotalRows)
	require.Len(t, result.Breakdown, 2)
}

func TestLoadResultPagination(t *testing.T) {

	depot := newTestDepot(t)

	tableReq := defaultTableRequest()
	tableReq.Page_Size = 3

	result, err := LoadResult(depot.DB, depot, humanLiverControl(), tableReq)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	require.Equal(t, 4, result.TotalRows)

	tableReq.Page = 2
	result, err = LoadResult(depot.DB, depot, humanLiverControl(), tableReq)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "ENSG0004", result.Rows[0].GeneID)
}

// Identical selections recompute from the file and agree every time.
func TestLoadResultRepeatable(t *testing.T) {

	depot := newTestDepot(t)

	a, err := LoadResult(depot.DB, depot, humanLiverControl(), defaultTableRequest())
	require.NoError(t, err)

	b, err := LoadResult(depot.DB, depot, humanLiverControl(), defaultTableRequest())
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestLoadResultNoMatch(t *testing.T) {

	depot := newTestDepot(t)

	sel := Selection{Species: "human", Tissue: "liver", CellLine: "HepG2", Condition: "nope"}

	result, err := LoadResult(depot.DB, depot, sel, defaultTableRequest())
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestLoadResultMalformedDataset(t *testing.T) {

	depot := newTestDepot(t)

	sel := Selection{Species: "mouse", Tissue: "brain", CellLine: "N2a", Condition: "control"}

	_, err := LoadResult(depot.DB, depot, sel, defaultTableRequest())
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "GSE005"))
}

func TestLoadBreakdown(t *testing.T) {

	depot := newTestDepot(t)

	entry, breakdown, err := LoadBreakdown(depot.DB, depot, humanLiverControl())
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "GSE001", entry.DataID)

	// GSE001 holds two protein_coding and two lncRNA genes.
	require.Len(t, breakdown, 2)
	for _, share := range breakdown {
		require.Equal(t, 2, share.Count)
		require.Equal(t, 50.0, share.Percent)
	}

	// Unmatched selection yields nothing.
	entry, breakdown, err = LoadBreakdown(depot.DB, depot, Selection{Species: "x", Tissue: "y", CellLine: "z", Condition: "w"})
	require.NoError(t, err)
	require.Nil(t, entry)
	require.Nil(t, breakdown)
}
