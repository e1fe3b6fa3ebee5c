package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"placesync/internal/services"
)

type refreshFlags struct {
	placeID string
	offset  int
	limit   int
}

func newRefreshCmd() *cobra.Command {
	var flags refreshFlags
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh one place, one page of places, or the whole catalog",
		Example: `  placesync refresh --place 6f1c...
  placesync refresh --offset 0 --limit 50
  placesync refresh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.placeID, "place", "", "refresh a single place by id")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "start of the page to refresh")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "size of the page to refresh (1-100); 0 refreshes every place")
	cmd.MarkFlagsMutuallyExclusive("place", "offset")
	cmd.MarkFlagsMutuallyExclusive("place", "limit")
	return cmd
}

func runRefresh(cmd *cobra.Command, flags refreshFlags) error {
	var (
		single services.RefreshServiceInterface
		batch  services.BatchRefreshServiceInterface
	)
	app := fx.New(
		coreModules(),
		fx.Populate(&single, &batch),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	var (
		result interface{}
		err    error
	)
	switch {
	case flags.placeID != "":
		id, parseErr := uuid.Parse(flags.placeID)
		if parseErr != nil {
			return fmt.Errorf("--place: %w", parseErr)
		}
		result, err = single.RefreshPlace(ctx, id)
	case flags.limit > 0 || cmd.Flags().Changed("offset"):
		limit := flags.limit
		if limit == 0 {
			limit = 20
		}
		result, err = batch.RefreshPage(ctx, flags.offset, limit)
	default:
		result, err = batch.RefreshAll(ctx)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
