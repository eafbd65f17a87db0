package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMeasurements(t *testing.T) {

	input := "gene_id,logCPM,log2_fold_change,FDR\n" +
		"ENSG0001,5.12345,1.23456,0.00012\n" +
		"ENSG0002,-0.5,0,1\n"

	ms, err := ParseMeasurements(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ms, 2)

	require.Equal(t, "ENSG0001", ms[0].GeneID)
	require.Equal(t, 5.12345, ms[0].LogCPM)
	require.Equal(t, 1.23456, ms[0].Log2FC)
	require.Equal(t, 0.00012, ms[0].FDR)
}

// Column order does not matter and extras are ignored.
func TestParseMeasurementsReordered(t *testing.T) {

	input := "FDR,gene_id,extra,log2_fold_change,logCPM\n" +
		"0.5,ENSG0001,ignored,2.5,3.5\n"

	ms, err := ParseMeasurements(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, 3.5, ms[0].LogCPM)
	require.Equal(t, 2.5, ms[0].Log2FC)
	require.Equal(t, 0.5, ms[0].FDR)
}

func TestParseMeasurementsMissingColumn(t *testing.T) {

	input := "gene_id,logCPM,FDR\nENSG0001,5.1,0.01\n"

	_, err := ParseMeasurements(strings.NewReader(input))
	require.Error(t, err)
	require.Contains(t, err.Error(), "log2_fold_change")
}

func TestParseMeasurementsBadNumber(t *testing.T) {

	input := "gene_id,logCPM,log2_fold_change,FDR\nENSG0001,abc,1,0.5\n"

	_, err := ParseMeasurements(strings.NewReader(input))
	require.Error(t, err)
}

func TestParseMeasurementsEmpty(t *testing.T) {

	input := "gene_id,logCPM,log2_fold_change,FDR\n"

	ms, err := ParseMeasurements(strings.NewReader(input))
	require.NoError(t, err)
	require.Empty(t, ms)
}
