package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Sternrassler/pokedex-client/pkg/detail"
	"github.com/spf13/cobra"
)

func newEntryCmd(appFn func() *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "entry <id>",
		Short: "Show the joined detail of one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntry(cmd, appFn(), args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func runEntry(cmd *cobra.Command, a *app, arg string, asJSON bool) error {
	defer a.Close()

	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", arg)
	}

	view := detail.NewView(detail.NewAggregator(a.api, a.fetcher))
	defer view.Close()

	state, err := view.Navigate(cmd.Context(), id)
	switch state.Status {
	case detail.StatusReady:
	case detail.StatusNotFound:
		return fmt.Errorf("entry %d not found", id)
	default:
		if err == nil {
			err = errors.New("load did not complete")
		}
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), state.Model)
	}
	newRenderer(cmd.OutOrStdout()).entry(state.Model)
	return nil
}
