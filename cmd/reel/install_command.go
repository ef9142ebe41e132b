package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/installer"
)

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var executable string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Write a registry file adding context-menu entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeRegistryDocument(cmd, ctx, outPath, executable, installer.InstallDocument, "reel-install.reg")
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination path for the .reg file (default: reel-install.reg)")
	cmd.Flags().StringVar(&executable, "executable", "", "Path recorded in menu commands (default: this binary)")
	return cmd
}

func newUninstallCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Write a registry file removing the context-menu entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeRegistryDocument(cmd, ctx, outPath, "", installer.UninstallDocument, "reel-uninstall.reg")
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination path for the .reg file (default: reel-uninstall.reg)")
	return cmd
}

func writeRegistryDocument(
	cmd *cobra.Command,
	ctx *commandContext,
	outPath, executable string,
	render func(installer.Options) (string, error),
	defaultName string,
) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	if strings.TrimSpace(executable) == "" {
		self, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		executable = self
	}

	variants := make([]string, 0, len(cfg.Variants))
	for _, v := range cfg.Variants {
		variants = append(variants, v.Name)
	}

	doc, err := render(installer.Options{
		MenuLabel:  cfg.Installer.MenuLabel,
		Extensions: cfg.Installer.Extensions,
		Variants:   variants,
		Executable: executable,
	})
	if err != nil {
		return err
	}

	target := strings.TrimSpace(outPath)
	if target == "" {
		target = defaultName
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write registry file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", expanded)
	fmt.Fprintln(cmd.OutOrStdout(), "Import the file with regedit, or `reg import`, on the target machine.")
	return nil
}
