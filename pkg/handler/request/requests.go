package request

// Structure for querying the joined result table
type ResultTableRequest struct {
	Search_For string      `json:"search_for"` // Substring match on gene_id or symbol
	Order_By   ResultField `json:"order_by"`   // Field to order results by
	Order_Dir  string      `json:"order_dir"`  // Sort direction: asc or desc
	Page       int         `json:"page"`       // Page number for pagination (starting at 1)
	Page_Size  int         `json:"page_size"`  // Number of results per page
}