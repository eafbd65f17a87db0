package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/nadepot/nadepot/logger"
	"github.com/nadepot/nadepot/pkg/model"
	"github.com/nadepot/nadepot/pkg/render"
	"go.uber.org/zap"
)

// BiotypeChart renders the biotype percentage breakdown for a complete
// selection as a png.
func (dctx *DepotContext) BiotypeChart(w http.ResponseWriter, r *http.Request) {

	sel := selectionFromQuery(r)

	if !sel.Complete() {
		http.Error(w, "Selection is incomplete", http.StatusBadRequest)
		return
	}

	entry, breakdown, err := model.LoadBreakdown(dctx.DB, dctx.Depot, sel)
	if err != nil {
		logger.Error("Failed to load breakdown", zap.Any("selection", sel), zap.Error(err))
		http.Error(w, "Failed to load dataset", http.StatusInternalServerError)
		return
	}

	if entry == nil {
		http.Error(w, "No dataset for selection", http.StatusNotFound)
		return
	}

	// Render into a buffer first so a failure never ships a 200 with a
	// broken png body.
	var buf bytes.Buffer
	if err := render.RenderBiotypeChart(&buf, entry.DataID, breakdown); err != nil {
		if errors.Is(err, render.ErrEmptyBreakdown) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		logger.Error("Failed to render chart", zap.Error(err))
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
