package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nadepot/nadepot/logger"
	"github.com/nadepot/nadepot/pkg/model"
	"go.uber.org/zap"
)

// Response struct to hold the payload and page number
type ResultPayload struct {
	Dataset   *model.CatalogEntry  `json:"dataset"`
	Rows      []*model.ResultRow   `json:"rows"`
	Breakdown []model.BiotypeShare `json:"breakdown"`
	TotalPage int                  `json:"pageNumber"`
}

type ResultResponse struct {
	Success bool
	Payload ResultPayload `json:"payload"`
	Error   bool
}

// SelectionOptionsAPI returns the cascading select options for the current
// prefix of choices as json.
func (dctx *DepotContext) SelectionOptionsAPI(w http.ResponseWriter, r *http.Request) {

	sel := selectionFromQuery(r)

	options, err := model.OptionsFor(dctx.DB, sel)
	if err != nil {
		logger.Error("Failed to build selection options", zap.Error(err))
		http.Error(w, "Failed to build selection options", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(options)
}

// ResultAPI returns the joined table page and the biotype breakdown as
// json for a complete selection.
func (dctx *DepotContext) ResultAPI(w http.ResponseWriter, r *http.Request) {

	sel := selectionFromQuery(r)
	tableReq := tableRequestFromQuery(r)

	if !sel.Complete() {
		http.Error(w, "Selection is incomplete", http.StatusBadRequest)
		return
	}

	result, err := model.LoadResult(dctx.DB, dctx.Depot, sel, tableReq)
	if err != nil {
		logger.Error("Failed to load result for selection",
			zap.Any("selection", sel),
			zap.Error(err))
		http.Error(w, "Failed to load dataset", http.StatusInternalServerError)
		return
	}

	if result == nil {
		http.Error(w, "No dataset for selection", http.StatusNotFound)
		return
	}

	totalPage := (result.TotalRows + tableReq.Page_Size - 1) / tableReq.Page_Size

	response := ResultResponse{
		Success: true,
		Payload: ResultPayload{
			Dataset:   result.Entry,
			Rows:      result.Rows,
			Breakdown: result.Breakdown,
			TotalPage: totalPage,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
