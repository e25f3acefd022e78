package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/richinsley/liquidglass/adaptive"
	"github.com/richinsley/liquidglass/config"
	"github.com/richinsley/liquidglass/options"
)

func newColorsCommand(opts *options.HostOptions) *cobra.Command {
	var snapshotPath string
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Print the adaptive colours last published for each region",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := snapshotPath
			if path == "" {
				store, err := config.NewStore(*opts.ConfigFile)
				if err != nil {
					return err
				}
				path = store.Tuning().SnapshotPath
			}
			return printColors(cmd.OutOrStdout(), path, jsonMode)
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file (defaults to the configured path)")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output the raw snapshot JSON")
	return cmd
}

func printColors(w io.Writer, path string, jsonMode bool) error {
	snap, err := adaptive.ReadSnapshot(path)
	if errors.Is(err, adaptive.ErrNoSnapshot) {
		fmt.Fprintf(w, "no adaptive colours published yet at %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	if jsonMode {
		data, err := snap.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	regions := make([]string, 0, len(snap))
	for name := range snap {
		regions = append(regions, name)
	}
	sort.Strings(regions)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tLUMINANCE\tDARK\tTEXT\tICON")
	for _, name := range regions {
		e := snap[name]
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%s\n", name, e.Luminance, e.IsDark, e.TextColor, e.IconColor)
	}
	return tw.Flush()
}
