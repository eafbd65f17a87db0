package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/nadepot/nadepot/pkg/model"
)

// CatalogView feeds the full-catalog table with multi-row selection.
type CatalogView struct {
	Entries []*model.CatalogEntry
}

var catalogPageTemplate *template.Template

func init() {

	catalogTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <link href="/static/style.css" rel="stylesheet"></link>
		<script src="/static/script.js" defer></script>
		<title>NADepot - Dataset Catalog</title>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">NADepot</h1>
			<p class="app-description">full dataset catalog; pick rows and download the raw files as one archive.</p>
			<nav><a href="/">Browse</a> | <a href="/catalog">Catalog &amp; download</a></nav>
		</header>
		<form id="exportForm" action="/export" method="POST">
			<div>
				<button type="button" id="toggle-all-datasets">Select/Deselect All</button>
				<input type="submit" value="Download selected"></input>
			</div>
			<table class="catalogtable" border="1">
				<tr>
					<th></th>
					<th>Data ID</th>
					<th>Species</th>
					<th>Tissue</th>
					<th>Cell line</th>
					<th>Condition</th>
				</tr>
				{{range .Entries}}
					<tr>
						<td><input type="checkbox" class="dataset-checkbox" name="ds_{{.DataID}}" value="y"></input></td>
						<td>{{.DataID}}</td>
						<td>{{.Species}}</td>
						<td>{{.Tissue}}</td>
						<td>{{.CellLine}}</td>
						<td>{{.Condition}}</td>
					</tr>
				{{end}}
			</table>
		</form>
	</body>
	</html>`

	catalogPageTemplate = template.Must(template.New("catalogPage").Parse(catalogTmpl))
}

// RenderCatalogPage writes the catalog page with its export form.
func RenderCatalogPage(w io.Writer, view CatalogView) error {

	if err := catalogPageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render catalog page: %w", err)
	}

	return nil
}
