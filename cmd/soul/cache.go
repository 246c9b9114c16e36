package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soul/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parse cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached parse result",
	Args:  cobra.NoArgs,
	RunE:  runCacheClean,
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCacheDir(cmd)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
		return err
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheDirCmd)
}

func openCacheDir(cmd *cobra.Command) (*cache.Cache, error) {
	dir, err := cmd.Root().PersistentFlags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	return cache.Open(dir)
}

func runCacheClean(cmd *cobra.Command, _ []string) error {
	c, err := openCacheDir(cmd)
	if err != nil {
		return err
	}
	if err := c.Clean(); err != nil {
		return fmt.Errorf("failed to clean %s: %w", c.Dir(), err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", c.Dir())
	}
	return nil
}
