package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/glowadvisor/backend/internal/infrastructure/catalog"
	"github.com/glowadvisor/backend/internal/usecase"
	"github.com/spf13/cobra"
)

// newCatalogCommand prints the catalog, or one category of it, to stdout
func newCatalogCommand() *cobra.Command {
	var (
		source   string
		category string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog categories or the products of one category",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			loader := catalog.NewLoader(source, timeout, logger)

			products, err := loader.LoadProducts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if category == "" {
				for _, c := range catalog.Categories(products) {
					fmt.Fprintln(out, c)
				}
				return nil
			}

			view := usecase.BuildCatalogView(products, category, nil)
			if view.Placeholder != "" {
				fmt.Fprintln(out, view.Placeholder)
				return nil
			}
			for _, card := range view.Cards {
				fmt.Fprintf(out, "%s\t%s\n", card.Product.Name, card.Product.Brand)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "data/products.json", "catalog file path or http(s) URL")
	cmd.Flags().StringVar(&category, "category", "", "only list products in this category")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "fetch timeout for remote catalogs")
	return cmd
}
