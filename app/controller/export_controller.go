package controller

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/models"
	"storefront/pipeline"
	"storefront/service"
	"storefront/store"
)

// pngSessionTTL is how long generated PNG pages stay downloadable
const pngSessionTTL = 10 * time.Minute

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// validFormats is a map of valid format values
var validFormats = map[string]bool{
	"html": true,
	"pdf":  true,
	"png":  true,
}

// ExportController handles HTTP requests for catalog export
type ExportController struct {
	catalog  *store.CatalogStore
	pipeline *pipeline.Pipeline
	export   *service.ExportService
	// Temporary storage for PNG pages (key: sessionID, value: map of page number to PNG data)
	pngStorage      map[string]map[int][]byte
	pngStorageMutex sync.RWMutex
}

// NewExportController creates a new ExportController
func NewExportController(catalog *store.CatalogStore, p *pipeline.Pipeline, export *service.ExportService) *ExportController {
	return &ExportController{
		catalog:    catalog,
		pipeline:   p,
		export:     export,
		pngStorage: make(map[string]map[int][]byte),
	}
}

// exportTitle describes the active query, e.g. "Catalog · Shoes · Stride"
func exportTitle(q models.ProductQuery) string {
	parts := []string{"Catalog"}
	if q.Filters.Category != "" {
		parts = append(parts, q.Filters.Category)
	}
	if q.Filters.Brand != "" {
		parts = append(parts, q.Filters.Brand)
	}
	if q.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("%q", q.SearchTerm))
	}
	return strings.Join(parts, " · ")
}

// renderQuery strips the export-only parameters so the render endpoint sees
// the same pipeline query
func renderQuery(r *http.Request) string {
	values := url.Values{}
	for key, vals := range r.URL.Query() {
		if key == "format" {
			continue
		}
		values[key] = vals
	}
	return values.Encode()
}

// visibleProducts runs the pipeline for the request; ok is false once a
// response has been written
func (c *ExportController) visibleProducts(w http.ResponseWriter, r *http.Request, op string) (models.ProductQuery, []models.Product, bool) {
	query := productQueryFromRequest(r)
	products, err := c.catalog.Products()
	if err != nil {
		log.Printf("⚠️  %s: %v", op, err)
		http.Error(w, fmt.Sprintf("Catalog unavailable: %v", err), http.StatusServiceUnavailable)
		return query, nil, false
	}
	return query, c.pipeline.Query(products, query), true
}

// Export handles GET /export?format=html|pdf|png&search=&category=&brand=&minPrice=&maxPrice=&sort=
func (c *ExportController) Export(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Export: Received %s request to %s", r.Method, r.URL.String())

	if r.Method != http.MethodGet {
		log.Printf("❌ Export: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		log.Printf("❌ Export: format parameter is required")
		http.Error(w, "format parameter is required. Valid formats: html, pdf, png", http.StatusBadRequest)
		return
	}
	if !validFormats[format] {
		log.Printf("❌ Export: Invalid format: %s", format)
		http.Error(w, "Invalid format. Valid formats: html, pdf, png", http.StatusBadRequest)
		return
	}

	query, visible, ok := c.visibleProducts(w, r, "Export")
	if !ok {
		return
	}
	ctx := r.Context()

	switch format {
	case "html":
		// Standalone document: images are embedded
		data := c.export.BuildExportData(ctx, exportTitle(query), visible, true)
		htmlContent, err := c.export.RenderHTML(data)
		if err != nil {
			log.Printf("❌ Export: Error rendering HTML: %v", err)
			http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(htmlContent)); err != nil {
			log.Printf("❌ Export: Error writing HTML response: %v", err)
		}

	case "pdf":
		pdfData, err := c.export.GeneratePDF(ctx, renderQuery(r))
		if err != nil {
			log.Printf("❌ Export: Error generating PDF: %v", err)
			http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="catalog.pdf"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdfData); err != nil {
			log.Printf("❌ Export: Error writing PDF response: %v", err)
		}

	case "png":
		pngs, err := c.export.GeneratePNG(ctx, renderQuery(r), service.PageCount(len(visible)))
		if err != nil {
			log.Printf("❌ Export: Error generating PNG: %v", err)
			http.Error(w, fmt.Sprintf("Failed to generate PNG: %v", err), http.StatusInternalServerError)
			return
		}

		sessionID := c.storePNGs(pngs)
		writeJSON(w, http.StatusOK, pngResponse(sessionID, pngs), "Export")
	}
}

// storePNGs keeps pages for pngSessionTTL and returns the session id
func (c *ExportController) storePNGs(pngs map[int][]byte) string {
	sessionID := uuid.NewString()

	c.pngStorageMutex.Lock()
	c.pngStorage[sessionID] = pngs
	c.pngStorageMutex.Unlock()

	time.AfterFunc(pngSessionTTL, func() {
		c.pngStorageMutex.Lock()
		delete(c.pngStorage, sessionID)
		c.pngStorageMutex.Unlock()
	})
	return sessionID
}

// pngResponse lists download links for each stored page
func pngResponse(sessionID string, pngs map[int][]byte) models.ExportPNGResponse {
	pages := make([]models.ExportPageLink, 0, len(pngs))
	for i := 1; i <= len(pngs); i++ {
		if _, exists := pngs[i]; !exists {
			continue
		}
		// For single page, use simpler filename without page number
		filename := fmt.Sprintf("catalog_page_%d.png", i)
		if len(pngs) == 1 {
			filename = "catalog.png"
		}
		pages = append(pages, models.ExportPageLink{
			Page:     i,
			URL:      fmt.Sprintf("/export/png-page?session=%s&page=%d", sessionID, i),
			Filename: filename,
		})
	}
	return models.ExportPNGResponse{
		SessionID:  sessionID,
		TotalPages: len(pngs),
		Pages:      pages,
	}
}

// Render handles GET /export/render?<pipeline query>
// Returns the HTML the headless browser prints; images load from /products/{id}/image
func (c *ExportController) Render(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ RenderExport: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query, visible, ok := c.visibleProducts(w, r, "RenderExport")
	if !ok {
		return
	}

	data := c.export.BuildExportData(r.Context(), exportTitle(query), visible, false)
	htmlContent, err := c.export.RenderHTML(data)
	if err != nil {
		log.Printf("❌ RenderExport: Error rendering HTML: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(htmlContent)); err != nil {
		log.Printf("❌ RenderExport: Error writing HTML response: %v", err)
	}
}

// DownloadPNGPage handles GET /export/png-page?session=XXX&page=N
// Returns a specific PNG page from temporary storage
func (c *ExportController) DownloadPNGPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ DownloadPNGPage: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	pageStr := strings.TrimSpace(r.URL.Query().Get("page"))

	if sessionID == "" {
		log.Printf("❌ DownloadPNGPage: session parameter is required")
		http.Error(w, "session parameter is required", http.StatusBadRequest)
		return
	}

	pageNum, err := strconv.Atoi(pageStr)
	if err != nil || pageNum < 1 {
		log.Printf("❌ DownloadPNGPage: Invalid page number: %s", pageStr)
		http.Error(w, "Invalid page number", http.StatusBadRequest)
		return
	}

	c.pngStorageMutex.RLock()
	pngs, exists := c.pngStorage[sessionID]
	c.pngStorageMutex.RUnlock()

	if !exists {
		log.Printf("❌ DownloadPNGPage: Session not found: %s", sessionID)
		http.Error(w, "Session expired or not found", http.StatusNotFound)
		return
	}

	pngData, exists := pngs[pageNum]
	if !exists {
		log.Printf("❌ DownloadPNGPage: Page %d not found in session %s", pageNum, sessionID)
		http.Error(w, fmt.Sprintf("Page %d not found", pageNum), http.StatusNotFound)
		return
	}

	if !isPNG(pngData) {
		log.Printf("❌ DownloadPNGPage: Invalid PNG data for page %d (%d bytes)", pageNum, len(pngData))
		http.Error(w, "Invalid PNG data", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("catalog_page_%d.png", pageNum)

	// Headers must be set before WriteHeader
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pngData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	n, err := w.Write(pngData)
	if err != nil {
		log.Printf("❌ DownloadPNGPage: Error writing PNG response: %v", err)
		return
	}
	if n != len(pngData) {
		log.Printf("⚠️ DownloadPNGPage: Partial write: wrote %d of %d bytes", n, len(pngData))
	}
}

// isPNG checks the PNG file signature
func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}
