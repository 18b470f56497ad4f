package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/gitops"
	"github.com/fintrack-dev/fintrack/internal/importer"
)

func newInitCommand(a *app) *cobra.Command {
	var backend string
	var git bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := filepath.Abs(a.dataDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(dir, a.cfg, backend, git, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fintrack data directory at %s\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "storage backend (json, sqlite)")
	cmd.Flags().BoolVar(&git, "git", false, "track the data directory in git")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing fintrack.yaml")

	return cmd
}

func runInit(dir string, cfg *config.Config, backend string, git, force bool) error {
	dirs := []string{
		"",
		importer.Dir(""),
		filepath.Join(importer.Dir(""), "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o700); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfgPath := filepath.Join(dir, config.FileName)
	_, err := os.Stat(cfgPath)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	if exists && !force {
		if backend != "" || git {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
		}
	} else {
		out := *cfg
		if backend != "" {
			out.Storage.Backend = backend
			if backend == "sqlite" && out.Storage.Path == config.Default().Storage.Path {
				out.Storage.Path = "records.db"
			}
		}
		if git {
			out.Git.AutoCommit = true
		}
		if err := out.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfgPath, &out); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		cfg = &out
	}

	// Credentials never go into history.
	gitignore := cfg.Auth.Path + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !cfg.Git.AutoCommit {
		return nil
	}

	committer := &gitops.Committer{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	if err := committer.EnsureRepo(); err != nil {
		return err
	}
	if _, err := committer.Commit("init: fintrack data directory"); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}
