package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-nagdy/anasityshop-sub000/internal/control"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the upstream API and draft store and print their health",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	app, err := control.NewGateway(control.Config{
		Port:     cfg.Server.Port,
		API:      cfg.API,
		Services: cfg.Services,
		Redis:    cfg.Redis,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		slog.Error("Failed to initialize Gateway", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	defer func() {
		_ = app.Stop(context.Background())
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "COMPONENT\tSTATUS\tDETAIL")

	start := time.Now()
	if err := app.ProbeUpstream(ctx); err != nil {
		_, _ = fmt.Fprintf(w, "upstream_api\tdown\t%v\n", err)
	} else {
		_, _ = fmt.Fprintf(w, "upstream_api\tok\t%s\n", time.Since(start).Round(time.Millisecond))
	}

	if mgr := app.Checkout(); mgr == nil {
		_, _ = fmt.Fprintf(w, "draft_store\tdisabled\t\n")
	} else if count, err := app.DraftCount(ctx); err != nil {
		_, _ = fmt.Fprintf(w, "draft_store\tdown\t%v\n", err)
	} else {
		_, _ = fmt.Fprintf(w, "draft_store\tok\tdrafts=%d ttl=%s\n", count, mgr.TTL())
	}
	_ = w.Flush()
}
