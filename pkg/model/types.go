package model

// Selection is the four cascading form fields identifying one dataset.
type Selection struct {
	Species   string `json:"species"`
	Tissue    string `json:"tissue"`
	CellLine  string `json:"cell_line"`
	Condition string `json:"condition"`
}

// Complete reports whether every field has been chosen.
func (s Selection) Complete() bool {
	return s.Species != "" && s.Tissue != "" && s.CellLine != "" && s.Condition != ""
}

// CatalogEntry is one row of the dataset catalog.
type CatalogEntry struct {
	DataID    string `json:"data_id"`
	Species   string `json:"species"`
	Tissue    string `json:"tissue"`
	CellLine  string `json:"cell_line"`
	Condition string `json:"condition"`
}

// SelectionOptions holds the values the cascading selects may offer for the
// current prefix of choices. A slice is nil when its upstream field is still
// unchosen.
type SelectionOptions struct {
	Species    []string `json:"species"`
	Tissues    []string `json:"tissues"`
	CellLines  []string `json:"cell_lines"`
	Conditions []string `json:"conditions"`
}

// Measurement is one row of a per-dataset csv before annotation.
type Measurement struct {
	GeneID string
	LogCPM float64
	Log2FC float64
	FDR    float64
}

// ResultRow is a measurement joined with its gene annotation. Numeric
// columns are rounded to 3 decimal places for display.
type ResultRow struct {
	GeneID  string  `json:"gene_id"`
	Symbol  string  `json:"symbol"`
	Biotype string  `json:"gene_biotype"`
	LogCPM  float64 `json:"logCPM"`
	Log2FC  float64 `json:"log2_fold_change"`
	FDR     float64 `json:"FDR"`
}

// BiotypeShare is one bar of the breakdown chart.
type BiotypeShare struct {
	Biotype string  `json:"gene_biotype"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Result is everything derived from one submit. It is recomputed per
// request and never persisted.
type Result struct {
	Entry     *CatalogEntry  `json:"dataset"`
	Rows      []*ResultRow   `json:"rows"`
	Breakdown []BiotypeShare `json:"breakdown"`
	TotalRows int            `json:"total_rows"`
}
