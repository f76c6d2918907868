package main

import (
	"errors"
	"fmt"

	"github.com/Sternrassler/pokedex-client/pkg/catalog"
	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type catalogOptions struct {
	category   string
	generation string
	name       string
	id         string
	pages      int
	json       bool
}

func newCatalogCmd(appFn func() *app) *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog entries",
		Long: `List catalog entries page by page.

With --generation the complete member set of that generation is listed and
--pages is ignored. The other filters narrow the loaded entries locally and
never cause additional fetches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd, appFn(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.category, "type", catalog.All, "category filter")
	flags.StringVar(&opts.generation, "generation", catalog.All, "generation filter, e.g. generation-i")
	flags.StringVar(&opts.name, "name", "", "case-insensitive name substring")
	flags.StringVar(&opts.id, "id", "", "exact identifier")
	flags.IntVar(&opts.pages, "pages", 1, "number of pages to load")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	return cmd
}

func runCatalog(cmd *cobra.Command, a *app, opts *catalogOptions) error {
	defer a.Close()

	if opts.pages < 1 {
		return fmt.Errorf("--pages must be at least 1 (got %d)", opts.pages)
	}

	ctx := cmd.Context()
	agg := catalog.NewAggregator(a.api, a.fetcher)
	session := catalog.NewSession(agg, a.cfg.Catalog.PageSize)
	defer session.Close()

	if opts.generation != catalog.All {
		session.LoadTaxonomies(ctx)
		if err := session.SetGeneration(ctx, opts.generation); err != nil {
			return fmt.Errorf("load generation %s: %w", opts.generation, err)
		}
	} else {
		if err := session.Init(ctx); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		for page := 1; page < opts.pages; page++ {
			err := session.LoadMore(ctx)
			if errors.Is(err, pagination.ErrExhausted) {
				break
			}
			if err != nil {
				return fmt.Errorf("load page %d: %w", page+1, err)
			}
		}
	}

	session.SetCategory(opts.category)
	session.SetNameQuery(opts.name)
	session.SetIDQuery(opts.id)

	view := session.View()
	log.Debug().
		Int("resolved", len(session.Resolved())).
		Int("visible", len(view.Visible)).
		Msg("Catalog view ready")

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), catalogOutput{
			Entries:           nonNil(view.Visible),
			HasMore:           view.HasMore,
			Filters:           view.Filters,
			CategoryOptions:   view.CategoryOptions,
			GenerationOptions: view.GenerationOptions,
		})
	}

	newRenderer(cmd.OutOrStdout()).catalog(view)
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
