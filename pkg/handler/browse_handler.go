package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nadepot/nadepot/logger"
	"github.com/nadepot/nadepot/pkg/handler/request"
	"github.com/nadepot/nadepot/pkg/model"
	"github.com/nadepot/nadepot/pkg/render"
	"go.uber.org/zap"
)

const (
	defaultPageSize   = 100
	defaultPageNumber = 1
	defaultOrderBy    = "gene_id"
	defaultOrderDir   = "asc"
)

func parsePositiveIntFallback(v string, fallback int) int {
	num, err := strconv.Atoi(v)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

func normalizeOrderDir(raw string) string {
	switch strings.ToLower(raw) {
	case "desc":
		return "desc"
	default:
		return defaultOrderDir
	}
}

// selectionFromQuery reads the four cascading fields.
func selectionFromQuery(r *http.Request) model.Selection {
	q := r.URL.Query()
	return model.Selection{
		Species:   q.Get("species"),
		Tissue:    q.Get("tissue"),
		CellLine:  q.Get("cell_line"),
		Condition: q.Get("condition"),
	}
}

func tableRequestFromQuery(r *http.Request) request.ResultTableRequest {

	orderBy := r.URL.Query().Get("order_by")
	if orderBy == "" {
		orderBy = defaultOrderBy
	}

	return request.ResultTableRequest{
		Search_For: r.URL.Query().Get("search"),
		Order_By:   request.NewResultField(orderBy),
		Order_Dir:  normalizeOrderDir(r.URL.Query().Get("order_dir")),
		Page:       parsePositiveIntFallback(r.URL.Query().Get("page"), defaultPageNumber),
		Page_Size:  parsePositiveIntFallback(r.URL.Query().Get("page_size"), defaultPageSize),
	}
}

// Main browse page. Without a submitted selection it renders only the form;
// submitting a complete selection adds the chart and the joined table.
func (dctx *DepotContext) BrowsePage(w http.ResponseWriter, r *http.Request) {

	sel := selectionFromQuery(r)
	tableReq := tableRequestFromQuery(r)
	submitted := r.URL.Query().Get("submit") == "1"

	logger.Info("Running browsepage",
		zap.String("url", r.URL.Path),
		zap.String("species", sel.Species),
		zap.String("tissue", sel.Tissue),
		zap.String("cell_line", sel.CellLine),
		zap.String("condition", sel.Condition),
		zap.Bool("submitted", submitted),
		zap.Int("page", tableReq.Page),
		zap.Int("page_size", tableReq.Page_Size),
		zap.String("order_by", tableReq.Order_By.String()),
		zap.String("order_dir", tableReq.Order_Dir),
	)

	options, err := model.OptionsFor(dctx.DB, sel)
	if err != nil {
		logger.Error("Failed to build selection options", zap.Error(err))
		http.Error(w, "Failed to build selection options", http.StatusInternalServerError)
		return
	}

	view := render.BrowseView{
		Selection:   sel,
		Options:     options,
		Submitted:   submitted,
		SearchText:  tableReq.Search_For,
		OrderBy:     tableReq.Order_By.String(),
		OrderDir:    tableReq.Order_Dir,
		CurrentPage: tableReq.Page,
		PageSize:    tableReq.Page_Size,
	}

	if submitted && sel.Complete() {
		result, err := model.LoadResult(dctx.DB, dctx.Depot, sel, tableReq)
		if err != nil {
			logger.Error("Failed to load result for selection",
				zap.Any("selection", sel),
				zap.Error(err))
			http.Error(w, "Failed to load dataset", http.StatusInternalServerError)
			return
		}

		if result == nil {
			view.NoMatch = true
		} else {
			view.Result = result
			view.TotalPage = (result.TotalRows + tableReq.Page_Size - 1) / tableReq.Page_Size
		}
	}

	if err := render.RenderBrowsePage(w, view); err != nil {
		logger.Error(err.Error())
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// Full catalog with multi-row selection for bulk download.
func (dctx *DepotContext) CatalogPage(w http.ResponseWriter, r *http.Request) {

	entries, err := model.AllCatalog(dctx.DB)
	if err != nil {
		logger.Error("Failed to list catalog", zap.Error(err))
		http.Error(w, "Failed to list catalog", http.StatusInternalServerError)
		return
	}

	if err := render.RenderCatalogPage(w, render.CatalogView{Entries: entries}); err != nil {
		logger.Error(err.Error())
		http.Error(w, "Failed to render catalog", http.StatusInternalServerError)
	}
}
