package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"storefront/app"
	"storefront/models"
	"storefront/pipeline"
	"storefront/utils"
)

var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Storefront catalog, cart and wishlist server",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Print the visible product list for a query",
	RunE:  runProducts,
}

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Print the categories, brands and price range of the catalog",
	RunE:  runFacets,
}

var warmImagesCmd = &cobra.Command{
	Use:   "warm-images",
	Short: "Optimize and cache every product image",
	RunE:  runWarmImages,
}

var (
	flagSizes    []string
	flagSearch   string
	flagCategory string
	flagBrand    string
	flagMinPrice string
	flagMaxPrice string
	flagSort     string
	flagJSON     bool
)

func init() {
	productsCmd.Flags().StringVar(&flagSearch, "search", "", "case-insensitive search over name, category and brand")
	productsCmd.Flags().StringVar(&flagCategory, "category", "", "exact category")
	productsCmd.Flags().StringVar(&flagBrand, "brand", "", "exact brand")
	productsCmd.Flags().StringVar(&flagMinPrice, "min-price", "", "minimum price, inclusive")
	productsCmd.Flags().StringVar(&flagMaxPrice, "max-price", "", "maximum price, inclusive")
	productsCmd.Flags().StringVar(&flagSort, "sort", "", "price-low, price-high, name or rating")
	productsCmd.Flags().BoolVar(&flagJSON, "json", false, "print JSON instead of a table")
	facetsCmd.Flags().BoolVar(&flagJSON, "json", false, "print JSON instead of text")

	warmImagesCmd.Flags().StringSliceVar(&flagSizes, "size", nil, "sizes to warm (thumb, medium); default both")

	rootCmd.AddCommand(serveCmd, productsCmd, facetsCmd, warmImagesCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := app.NewSession(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer session.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           session.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		log.Printf("Products endpoint: GET http://localhost:%s/products?search=&sort=price-low", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Printf("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// loadCatalog builds a memory-backed session and waits for the catalog
func loadCatalog(ctx context.Context) (*app.Session, []models.Product, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.StorageDriver = app.StorageMemory
	cfg.CatalogLoadDelay = 0

	session, err := app.NewSession(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	state, err := session.Catalog.Wait(ctx)
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	if state.Status != models.CatalogReady {
		session.Close()
		return nil, nil, fmt.Errorf("catalog failed to load: %s", state.Message)
	}
	return session, state.Products, nil
}

func runProducts(cmd *cobra.Command, args []string) error {
	session, products, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	query := utils.ParseProductQuery(flagSearch, flagCategory, flagBrand, flagMinPrice, flagMaxPrice, flagSort)
	visible := session.Pipeline.Query(products, query)

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.ProductListResponse{
			Products: visible,
			Count:    len(visible),
			Search:   query.SearchTerm,
			Sort:     query.Sort,
		})
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tBRAND\tPRICE\tRATING")
	for _, p := range visible {
		rating := "-"
		if p.Rating != nil {
			rating = fmt.Sprintf("%.1f", *p.Rating)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Brand, utils.FormatPrice(p.Price), rating)
	}
	fmt.Fprintf(tw, "\n%d of %d products\n", len(visible), len(products))
	return tw.Flush()
}

func runFacets(cmd *cobra.Command, args []string) error {
	session, products, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	facets := pipeline.Facets(products)
	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(facets)
	}

	fmt.Fprintf(out, "Categories: %s\n", strings.Join(facets.Categories, ", "))
	fmt.Fprintf(out, "Brands:     %s\n", strings.Join(facets.Brands, ", "))
	if facets.PriceRange != nil {
		fmt.Fprintf(out, "Price:      %s - %s\n", utils.FormatPrice(facets.PriceRange.Min), utils.FormatPrice(facets.PriceRange.Max))
	}
	return nil
}

func runWarmImages(cmd *cobra.Command, args []string) error {
	session, products, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	result, err := session.Warm.WarmImages(cmd.Context(), products, flagSizes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d generated, %d skipped, %d failed out of %d images\n",
		result.Generated, result.Skipped, result.Failed, result.Total)
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  %s\n", msg)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d images failed", result.Failed)
	}
	return nil
}
