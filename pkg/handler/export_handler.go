package handler

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/nadepot/nadepot/logger"
	"github.com/nadepot/nadepot/pkg/model"
	"go.uber.org/zap"
)

// ExportDatasets bundles the raw dataset files of the checked catalog rows
// into one zip archive. Checked rows arrive as ds_<data_id> form fields.
// An empty selection is a silent no-op: no archive and no error page.
func (dctx *DepotContext) ExportDatasets(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	var dataIDs []string
	for key := range r.PostForm {
		if strings.HasPrefix(key, "ds_") {
			dataIDs = append(dataIDs, strings.TrimPrefix(key, "ds_"))
		}
	}

	if len(dataIDs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sort.Strings(dataIDs)

	entries, err := model.CatalogByDataIDs(dctx.DB, dataIDs)
	if err != nil {
		logger.Error("Failed to look up export selection", zap.Error(err))
		http.Error(w, "Failed to look up selection", http.StatusInternalServerError)
		return
	}

	if len(entries) != len(dataIDs) {
		http.Error(w, "Selection contains unknown data_id", http.StatusBadRequest)
		return
	}

	// Check every file before the response header goes out; a missing file
	// mid-stream would leave a truncated archive.
	for _, e := range entries {
		if !dctx.Depot.HasDataset(e.DataID) {
			logger.Error("Dataset file missing for catalog row", zap.String("data_id", e.DataID))
			http.Error(w, "Dataset file missing", http.StatusInternalServerError)
			return
		}
	}

	filename := fmt.Sprintf("nadepot_data_%s.zip", time.Now().Format("20060102150405"))

	logger.Info("Exporting datasets",
		zap.Int("count", len(entries)),
		zap.String("filename", filename),
	)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	zw := zip.NewWriter(w)

	for _, e := range entries {
		if err := addDatasetToArchive(zw, dctx, e.DataID); err != nil {
			// Header already sent; all we can do is log and stop.
			logger.Error("Failed to archive dataset", zap.String("data_id", e.DataID), zap.Error(err))
			return
		}
	}

	if err := zw.Close(); err != nil {
		logger.Error("Failed to finalize archive", zap.Error(err))
	}
}

func addDatasetToArchive(zw *zip.Writer, dctx *DepotContext, dataID string) error {

	f, err := dctx.Depot.OpenDataset(dataID)
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := zw.Create(dataID + ".csv")
	if err != nil {
		return fmt.Errorf("create archive entry: %w", err)
	}

	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("copy dataset into archive: %w", err)
	}

	return nil
}
