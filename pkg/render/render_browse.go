package render

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/nadepot/nadepot/pkg/model"
)

// BrowseView is everything the browse page template needs.
type BrowseView struct {
	Selection model.Selection
	Options   *model.SelectionOptions
	Submitted bool
	NoMatch   bool
	Result    *model.Result

	SearchText  string
	OrderBy     string
	OrderDir    string
	CurrentPage int
	PageSize    int
	TotalPage   int
}

func (v BrowseView) selectionValues() url.Values {
	q := url.Values{}
	if v.Selection.Species != "" {
		q.Set("species", v.Selection.Species)
	}
	if v.Selection.Tissue != "" {
		q.Set("tissue", v.Selection.Tissue)
	}
	if v.Selection.CellLine != "" {
		q.Set("cell_line", v.Selection.CellLine)
	}
	if v.Selection.Condition != "" {
		q.Set("condition", v.Selection.Condition)
	}
	return q
}

// ChartURL points the img tag at the png endpoint for this selection.
func (v BrowseView) ChartURL() string {
	return "/chart?" + v.selectionValues().Encode()
}

func (v BrowseView) tableValues() url.Values {
	q := v.selectionValues()
	q.Set("submit", "1")
	if v.SearchText != "" {
		q.Set("search", v.SearchText)
	}
	q.Set("order_by", v.OrderBy)
	q.Set("order_dir", v.OrderDir)
	q.Set("page_size", strconv.Itoa(v.PageSize))
	return q
}

// SortURL re-requests the table ordered by field. Clicking the already
// active ascending column flips to descending.
func (v BrowseView) SortURL(field string) string {
	q := v.tableValues()
	q.Set("order_by", field)
	if v.OrderBy == field && v.OrderDir == "asc" {
		q.Set("order_dir", "desc")
	} else {
		q.Set("order_dir", "asc")
	}
	q.Set("page", "1")
	return "/?" + q.Encode()
}

func (v BrowseView) PageURL(page int) string {
	q := v.tableValues()
	q.Set("page", strconv.Itoa(page))
	return "/?" + q.Encode()
}

func (v BrowseView) PrevPage() int { return v.CurrentPage - 1 }
func (v BrowseView) NextPage() int { return v.CurrentPage + 1 }
func (v BrowseView) HasPrev() bool { return v.CurrentPage > 1 }
func (v BrowseView) HasNext() bool { return v.CurrentPage < v.TotalPage }

var browsePageTemplate *template.Template

// init initializes the templates used for rendering the HTML page.
func init() {

	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <link href="/static/style.css" rel="stylesheet"></link>
		<script src="/static/script.js" defer></script>
		<title>NADepot - NAD-RNA Dataset Browser</title>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">NADepot</h1>
			<p class="app-description">
				browse NAD-RNA capture datasets by species, tissue, cell line and condition.
			</p>
			<nav><a href="/">Browse</a> | <a href="/catalog">Catalog &amp; download</a></nav>
		</header>
		<div class="browse-header">
			{{template "selectionForm" .}}
		</div>
		{{if .Submitted}}
			{{if .NoMatch}}
				<p class="no-match">No dataset matches this selection.</p>
			{{else if .Result}}
				{{template "summaryChart" .}}
				{{template "resultTable" .}}
				{{template "pagination" .}}
			{{end}}
		{{end}}
	</body>
	</html>`

	selectionForm := `
	{{define "selectionForm"}}
  <form id="selectionForm" action="/" method="GET">
    <div class="form-row">
      <label>Species:<select name="species" id="species" onchange="this.form.submit()">
        <option value=""></option>
        {{range .Options.Species}}<option value="{{.}}" {{if eq $.Selection.Species .}}selected{{end}}>{{.}}</option>{{end}}
      </select></label>
      <label>Tissue:<select name="tissue" id="tissue" onchange="this.form.submit()" {{if not .Selection.Species}}disabled{{end}}>
        <option value=""></option>
        {{range .Options.Tissues}}<option value="{{.}}" {{if eq $.Selection.Tissue .}}selected{{end}}>{{.}}</option>{{end}}
      </select></label>
      <label>Cell line:<select name="cell_line" id="cell_line" onchange="this.form.submit()" {{if not .Selection.Tissue}}disabled{{end}}>
        <option value=""></option>
        {{range .Options.CellLines}}<option value="{{.}}" {{if eq $.Selection.CellLine .}}selected{{end}}>{{.}}</option>{{end}}
      </select></label>
      <label>Condition:<select name="condition" id="condition" onchange="this.form.submit()" {{if not .Selection.CellLine}}disabled{{end}}>
        <option value=""></option>
        {{range .Options.Conditions}}<option value="{{.}}" {{if eq $.Selection.Condition .}}selected{{end}}>{{.}}</option>{{end}}
      </select></label>
      <button type="submit" name="submit" value="1">Load dataset</button>
    </div>
	<div class="form-row">
	  <input type="text" name="search" placeholder="Filter by gene id or symbol" value="{{.SearchText}}"></input>
	  <label>Page Size:
	  <select name="page_size" id="page_size">
        <option value=50  {{if eq .PageSize 50}}selected{{end}}>50</option>
        <option value=100 {{if eq .PageSize 100}}selected{{end}}>100</option>
        <option value=250 {{if eq .PageSize 250}}selected{{end}}>250</option>
        <option value=500 {{if eq .PageSize 500}}selected{{end}}>500</option>
      </select>
	  </label>
	</div>
    <!-- Remember page number, order by and order direction -->
    <input type="hidden" name="page" id="page" value="{{.CurrentPage}}"></input>
    <input type="hidden" name="order_by" id="order_by" value={{.OrderBy}}></input>
    <input type="hidden" name="order_dir" id="order_dir" value="{{.OrderDir}}"></input>
  </form>
	{{end}}`

	summaryChart := `
	{{define "summaryChart"}}
		<div class="summary-chart">
			<h3>Gene biotypes in {{.Result.Entry.DataID}}</h3>
			<img src="{{.ChartURL}}" alt="Gene biotype breakdown"></img>
		</div>
	{{end}}`

	resultTable := `
    {{define "resultTable"}}
        <table class="resulttable" border="1">
            <tr>
            <th><a href="{{.SortURL "gene_id"}}">Gene ID</a></th>
            <th><a href="{{.SortURL "symbol"}}">Symbol</a></th>
            <th><a href="{{.SortURL "biotype"}}">Biotype</a></th>
            <th><a href="{{.SortURL "logcpm"}}">logCPM</a></th>
            <th><a href="{{.SortURL "log2fc"}}">log2FC</a></th>
            <th><a href="{{.SortURL "fdr"}}">FDR</a></th>
            </tr>
            {{range .Result.Rows}}
                <tr>
                    <td>{{.GeneID}}</td>
                    <td>{{.Symbol}}</td>
                    <td>{{.Biotype}}</td>
                    <td>{{f3 .LogCPM}}</td>
                    <td>{{f3 .Log2FC}}</td>
                    <td>{{f3 .FDR}}</td>
                </tr>
            {{end}}
        </table>
	{{end}}`

	pagination := `
	{{define "pagination"}}
		<div class="pagination">
			{{if .HasPrev}}<a href="{{.PageURL .PrevPage}}">&laquo; Prev</a>{{end}}
			<span>Page {{.CurrentPage}} of {{.TotalPage}}</span>
			{{if .HasNext}}<a href="{{.PageURL .NextPage}}">Next &raquo;</a>{{end}}
		</div>
	{{end}}`

	t := template.New("browsePage").Funcs(template.FuncMap{
		"f3": func(v float64) string { return fmt.Sprintf("%.3f", v) },
	})

	for _, tmpl := range []string{mainTmpl, selectionForm, summaryChart, resultTable, pagination} {
		t = template.Must(t.Parse(tmpl))
	}

	browsePageTemplate = t
}

// RenderBrowsePage writes the browse page.
func RenderBrowsePage(w io.Writer, view BrowseView) error {

	if view.Options == nil {
		view.Options = &model.SelectionOptions{}
	}

	if err := browsePageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render browse page: %w", err)
	}

	return nil
}
