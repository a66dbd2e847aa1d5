package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediapick/internal/album"
	"mediapick/internal/ledger"
)

func newAlbumCommand(ctx *commandContext) *cobra.Command {
	albumCmd := &cobra.Command{
		Use:   "album",
		Short: "Inspect photos saved to albums",
	}
	albumCmd.AddCommand(newAlbumListCommand(ctx))
	albumCmd.AddCommand(newAlbumPathCommand(ctx))
	return albumCmd
}

func newAlbumListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [album]",
		Short: "List saved photos, optionally for one album",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = album.NormalizeName(args[0])
			}
			return ctx.withLedger(func(store *ledger.Store) error {
				assets, err := store.ListAlbumAssets(cmd.Context(), name)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(assets) == 0 {
					fmt.Fprintln(out, "No saved photos")
					return nil
				}
				rows := make([][]string, 0, len(assets))
				for _, asset := range assets {
					source := "edited"
					if asset.FromCamera {
						source = "camera"
					}
					rows = append(rows, []string{
						album.DisplayName(asset.Album),
						filepath.Base(asset.Path),
						fmt.Sprintf("%dx%d", asset.Width, asset.Height),
						source,
						formatTimestamp(asset.CreatedAt),
					})
				}
				printRows(out,
					[]string{"Album", "File", "Size", "Source", "Saved"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				)
				return nil
			})
		},
	}
}

func newAlbumPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path [album]",
		Short: "Print the directory an album is stored in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := cfg.Picker.AlbumName
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				name = args[0]
			}
			saver := album.NewSaver(cfg.Paths.AlbumDir, cfg.AlbumLockPath(), ctx.loggerValue())
			fmt.Fprintln(cmd.OutOrStdout(), saver.Dir(album.NormalizeName(name)))
			return nil
		},
	}
}
