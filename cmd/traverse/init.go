package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/traverse/internal/config"
	"github.com/vango-dev/traverse/internal/errors"
)

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a traverse.json in the current directory",
		Long: `Create a traverse.json with default settings.

Examples:
  traverse init
  traverse init --name=myapp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name")

	return cmd
}

func runInit(name string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	if config.Exists(wd) {
		errorMsg("traverse.json already exists")
		return errors.Newf(errors.CategoryCLI, "refusing to overwrite %s", filepath.Join(wd, config.ConfigFileName))
	}

	cfg := config.New()
	if name != "" {
		cfg.Name = name
	} else {
		cfg.Name = filepath.Base(wd)
	}

	if err := cfg.SaveTo(filepath.Join(wd, config.ConfigFileName)); err != nil {
		return err
	}

	success("Created traverse.json")
	info("Put your built client in ./%s and run 'traverse serve'", cfg.Shell.Dir)
	return nil
}
