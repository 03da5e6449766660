package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/catalog"
	"github.com/a-nagdy/anasityshop-sub000/internal/control"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/config"
)

var (
	productsPage   int
	productsLimit  int
	productsSearch string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List a page of products from the commerce API",
	Run:   runProducts,
}

func init() {
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "page to fetch")
	productsCmd.Flags().IntVar(&productsLimit, "limit", 20, "products per page")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "search term")
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	app, err := control.NewGateway(control.Config{
		Port:     cfg.Server.Port,
		API:      cfg.API,
		Services: cfg.Services,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		slog.Error("Failed to initialize Gateway", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, page, err := app.Catalog().List(ctx, catalog.ListParams{
		Page:   productsPage,
		Limit:  productsLimit,
		Search: productsSearch,
	})
	if err != nil {
		slog.Error("Failed to list products", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTATUS\tSTOCK")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%d\n", p.ID, p.Name, p.Price, p.Status, p.Quantity)
	}
	_ = w.Flush()

	if page != nil {
		fmt.Printf("page %d/%d (%d products)\n", page.Page, page.TotalPages, page.Total)
	}
}
