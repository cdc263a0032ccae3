package models

// CatalogStatus is the lifecycle state of the catalog store
type CatalogStatus string

const (
	CatalogLoading CatalogStatus = "loading"
	CatalogReady   CatalogStatus = "ready"
	CatalogError   CatalogStatus = "error"
)

// CatalogState represents what consumers observe of the catalog store.
// Products is only set when ready; Message only on error.
type CatalogState struct {
	Status   CatalogStatus `json:"status"`
	Products []Product     `json:"products,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// Settled reports whether the catalog left the loading state
func (s CatalogState) Settled() bool {
	return s.Status != CatalogLoading
}

// ExportItem represents a single product on an exported catalog page
type ExportItem struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Category      string `json:"category"`
	Price         string `json:"price"`         // Formatted (e.g. "$19.99")
	OriginalPrice string `json:"originalPrice"` // Empty when there is no discount
	Discount      int    `json:"discount"`      // Whole percentage, 0 when absent
	Rating        int    `json:"rating"`        // Whole stars, 0-5
	ImageURL      string `json:"imageUrl"`
	ImageBase64   string `json:"imageBase64"` // For PDF/PNG generation
}

// ExportData represents the data structure passed to the export template
type ExportData struct {
	Title     string         `json:"title"`
	Pages     [][]ExportItem `json:"pages"`
	PageCount int            `json:"pageCount"`
	Total     int            `json:"total"`
}

// ExportPageLink points at one PNG page of an export session
type ExportPageLink struct {
	Page     int    `json:"page"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ExportPNGResponse represents the response for a PNG export
type ExportPNGResponse struct {
	SessionID  string           `json:"sessionId"`
	TotalPages int              `json:"totalPages"`
	Pages      []ExportPageLink `json:"pages"`
}

// WarmResult summarizes an image cache warm-up
// Example response:
//
//	{"total": 12, "generated": 9, "skipped": 3, "failed": 0, "errors": []}
type WarmResult struct {
	Total     int      `json:"total"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}
