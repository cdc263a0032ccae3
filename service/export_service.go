package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"storefront/models"
	"storefront/utils"
)

const (
	itemsPerPage = 9
	// concurrent image downloads while building base64 pages
	imageFetchLimit = 4
)

// waitForAssetsJS resolves once fonts and images are loaded (or timed out)
const waitForAssetsJS = `
	(function() {
		return Promise.all([
			document.fonts.ready,
			Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
				return new Promise((resolve) => {
					if (img.complete && img.naturalWidth > 0) {
						resolve();
						return;
					}
					const timeout = setTimeout(() => resolve(), 5000);
					img.onload = () => { clearTimeout(timeout); resolve(); };
					img.onerror = () => { clearTimeout(timeout); resolve(); };
				});
			}))
		]);
	})();
`

// awaitPromise makes Evaluate wait for a returned Promise to settle
func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// templateFuncs are the helpers available to the export template
var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"stars": func(rating int) string {
		if rating < 0 {
			rating = 0
		}
		if rating > 5 {
			rating = 5
		}
		return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
	},
}

// ExportService renders the visible product list as an HTML catalog and
// turns it into PDF or PNG pages through headless Chrome
type ExportService struct {
	images       ImageServiceInterface
	baseURL      string // Base URL the browser uses to reach /export/render (e.g., "http://localhost:8080")
	templatePath string
	chromePath   string
}

// NewExportService creates a new ExportService
func NewExportService(images ImageServiceInterface, baseURL, templatePath, chromePath string) *ExportService {
	if templatePath == "" {
		templatePath = filepath.Join("templates", "catalog.html")
	}
	return &ExportService{
		images:       images,
		baseURL:      baseURL,
		templatePath: templatePath,
		chromePath:   chromePath,
	}
}

// detectChromePath returns the configured Chrome path, or the first common
// installation path that exists
func (s *ExportService) detectChromePath() string {
	if s.chromePath != "" {
		if _, err := os.Stat(s.chromePath); err == nil {
			return s.chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// PageCount returns how many template pages n products occupy
func PageCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + itemsPerPage - 1) / itemsPerPage
}

// paginate splits items into pages of itemsPerPage
func paginate(items []models.ExportItem) [][]models.ExportItem {
	var pages [][]models.ExportItem
	for i := 0; i < len(items); i += itemsPerPage {
		end := i + itemsPerPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[i:end])
	}
	if len(pages) == 0 {
		pages = [][]models.ExportItem{{}}
	}
	return pages
}

// toExportItem converts a product into its printable form
func (s *ExportService) toExportItem(p models.Product) models.ExportItem {
	item := models.ExportItem{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    utils.FormatPrice(p.Price),
		Rating:   int(math.Round(p.RatingOrZero())),
	}
	if p.Discount != nil && *p.Discount > 0 {
		item.Discount = int(math.Round(*p.Discount))
		item.OriginalPrice = utils.FormatPrice(p.OriginalPrice())
	}
	if p.Image != "" {
		item.ImageURL = fmt.Sprintf("%s/products/%d/image?size=medium", s.baseURL, p.ID)
	}
	return item
}

// BuildExportData paginates products for the template. With useBase64 the
// product images are embedded so the page renders without calling back.
func (s *ExportService) BuildExportData(ctx context.Context, title string, products []models.Product, useBase64 bool) models.ExportData {
	items := make([]models.ExportItem, len(products))
	for i, p := range products {
		items[i] = s.toExportItem(p)
	}

	if useBase64 && s.images != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(imageFetchLimit)
		for i, p := range products {
			if p.Image == "" {
				continue
			}
			i, p := i, p
			g.Go(func() error {
				data, err := s.images.ProductImage(gctx, p, 0, ImageSizeMedium)
				if err != nil {
					log.Printf("⚠️  Warning: Failed to fetch image for product %d: %v", p.ID, err)
					// Continue without image
					return nil
				}
				items[i].ImageBase64 = base64.StdEncoding.EncodeToString(data)
				return nil
			})
		}
		_ = g.Wait()
	}

	pages := paginate(items)
	return models.ExportData{
		Title:     title,
		Pages:     pages,
		PageCount: len(pages),
		Total:     len(products),
	}
}

// RenderHTML renders the export template
func (s *ExportService) RenderHTML(data models.ExportData) (string, error) {
	tmpl, err := template.New(filepath.Base(s.templatePath)).Funcs(templateFuncs).ParseFiles(s.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// browser starts a headless Chrome bound to ctx
func (s *ExportService) browser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := s.detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		browserCancel()
		allocCancel()
	}
}

// renderURL returns the URL of the render endpoint for an encoded query
func (s *ExportService) renderURL(rawQuery string) string {
	if rawQuery == "" {
		return s.baseURL + "/export/render"
	}
	return s.baseURL + "/export/render?" + rawQuery
}

// GeneratePDF prints the render endpoint for rawQuery to PDF
func (s *ExportService) GeneratePDF(ctx context.Context, rawQuery string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	browserCtx, closeBrowser := s.browser(ctx)
	defer closeBrowser()

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(s.renderURL(rawQuery)),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForAssetsJS, nil, awaitPromise),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27" x 11.69"; page breaks come from CSS page-break-after
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

// GeneratePNG screenshots each .page element of the render endpoint.
// Returns a map of page number (1-based) to PNG data.
func (s *ExportService) GeneratePNG(ctx context.Context, rawQuery string, expectedPages int) (map[int][]byte, error) {
	// Screenshots are slower than printing; budget per page, capped.
	timeout := time.Duration(20+expectedPages*10) * time.Second
	if timeout > 3*time.Minute {
		timeout = 3 * time.Minute
	}
	log.Printf("📸 GeneratePNG: expectedPages=%d timeout=%s", expectedPages, timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, closeBrowser := s.browser(ctx)
	defer closeBrowser()

	var pageCountVal float64
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate(s.renderURL(rawQuery)),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForAssetsJS, nil, awaitPromise),
		chromedp.Evaluate(`document.querySelectorAll('.page').length`, &pageCountVal),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	pageCount := int(pageCountVal)
	if pageCount == 0 {
		return nil, fmt.Errorf("no pages found in HTML")
	}
	if expectedPages > 0 && pageCount != expectedPages {
		log.Printf("⚠️ GeneratePNG: detected %d pages, expected %d", pageCount, expectedPages)
	}

	pngs := make(map[int][]byte, pageCount)
	var missingPages []int
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		var buf []byte
		selector := fmt.Sprintf(`.page:nth-of-type(%d)`, pageNum)
		if err := chromedp.Run(browserCtx, chromedp.Screenshot(selector, &buf, chromedp.ByQuery)); err != nil || len(buf) == 0 {
			log.Printf("⚠️ GeneratePNG: failed page=%d err=%v", pageNum, err)
			missingPages = append(missingPages, pageNum)
			continue
		}
		pngs[pageNum] = buf
	}

	if len(pngs) == 0 {
		return nil, fmt.Errorf("failed to capture any pages")
	}
	if len(missingPages) > 0 {
		return nil, fmt.Errorf("failed to capture all pages: missing=%v captured=%d/%d", missingPages, len(pngs), pageCount)
	}
	return pngs, nil
}
