package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCatalogCSV = `data_id,species,tissue,cell_line,condition,display_name
GSE001,human,liver,HepG2,control,Human liver HepG2 control
GSE002,human,liver,HepG2,NMN,Human liver HepG2 NMN-treated
GSE003,human,brain,SH-SY5Y,control,Human brain SH-SY5Y control
GSE004,mouse,liver,AML12,control,Mouse liver AML12 control
`

const testAnnotationsCSV = `gene_id,symbol,gene_biotype,chromosome
ENSG0001,GAPDH,protein_coding,12
ENSG0002,MALAT1,lncRNA,11
ENSG0003,ACTB,protein_coding,7
ENSG0004,NEAT1,lncRNA,11
ENSG0005,RN7SK,snRNA,6
`

const testMeasurementCSV = `gene_id,logCPM,log2_fold_change,FDR
ENSG0001,5.12345,1.23456,0.00012
ENSG0002,3.98765,-0.54321,0.04567
ENSG0003,7.5,2,0.001
ENSG0004,2.22222,0.33333,0.5
`

// writeDepotFixture lays out a minimal data directory.
func writeDepotFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.csv"), []byte(testCatalogCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "annotations.csv"), []byte(testAnnotationsCSV), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "datasets"), 0o755))

	for _, id := range []string{"GSE001", "GSE002", "GSE003", "GSE004"} {
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "datasets", id+".csv"), []byte(testMeasurementCSV), 0o644))
	}

	return dir
}

func TestNewDepotDBMissingCatalog(t *testing.T) {

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "datasets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "annotations.csv"), []byte(testAnnotationsCSV), 0o644))

	_, err := NewDepotDB(dir)
	require.Error(t, err)
}

func TestNewDepotDBMissingDatasetDir(t *testing.T) {

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.csv"), []byte(testCatalogCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "annotations.csv"), []byte(testAnnotationsCSV), 0o644))

	_, err := NewDepotDB(dir)
	require.Error(t, err)
}

func TestLoadAll(t *testing.T) {

	depot, err := NewDepotDB(writeDepotFixture(t))
	require.NoError(t, err)
	defer depot.Close()

	require.NoError(t, depot.LoadAll())

	var datasets, annotations int
	require.NoError(t, depot.DB.QueryRow(`SELECT COUNT(*) FROM datasets`).Scan(&datasets))
	require.NoError(t, depot.DB.QueryRow(`SELECT COUNT(*) FROM gene_annotations`).Scan(&annotations))

	require.Equal(t, 4, datasets)
	require.Equal(t, 5, annotations)
}

func TestLoadAllDuplicateTuple(t *testing.T) {

	dir := writeDepotFixture(t)

	dup := testCatalogCSV + "GSE005,human,liver,HepG2,control,Duplicate tuple\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.csv"), []byte(dup), 0o644))

	depot, err := NewDepotDB(dir)
	require.NoError(t, err)
	defer depot.Close()

	require.Error(t, depot.LoadAll())
}

func TestLoadAllMissingColumn(t *testing.T) {

	dir := writeDepotFixture(t)

	bad := "data_id,species,tissue,cell_line\nGSE001,human,liver,HepG2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.csv"), []byte(bad), 0o644))

	depot, err := NewDepotDB(dir)
	require.NoError(t, err)
	defer depot.Close()

	require.Error(t, depot.LoadAll())
}

func TestOpenDataset(t *testing.T) {

	depot, err := NewDepotDB(writeDepotFixture(t))
	require.NoError(t, err)
	defer depot.Close()

	require.True(t, depot.HasDataset("GSE001"))
	require.False(t, depot.HasDataset("GSE999"))

	f, err := depot.OpenDataset("GSE001")
	require.NoError(t, err)
	f.Close()

	_, err = depot.OpenDataset("GSE999")
	require.ErrorIs(t, err, ErrDatasetNotFound)
}
