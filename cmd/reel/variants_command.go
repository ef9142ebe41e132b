package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newVariantsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List configured encode variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			headers := []string{"Name", "Codec", "Bitrate", "Container", "Suffix", "Preset"}
			rows := make([][]string, 0, len(cfg.Variants))
			for _, v := range cfg.Variants {
				rows = append(rows, []string{
					v.Name,
					v.Codec,
					strconv.Itoa(v.BitrateKbps) + "k",
					v.Container,
					v.Suffix,
					v.Preset,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, 2))
			fmt.Fprintf(out, "Default variant: %s\n", cfg.DefaultVariant().Name)
			return nil
		},
	}
}
