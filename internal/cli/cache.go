package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfplan/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local plan and render cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show the cache directory and its size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				n, size, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("read cache: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s\n", styleKey.Render("Directory"), fc.Dir())
				fmt.Fprintf(out, "%s %d\n", styleKey.Render("Entries"), n)
				fmt.Fprintf(out, "%s %.1f KiB\n", styleKey.Render("Size"), float64(size)/1024)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached plans and renders",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				if n == 0 {
					printInfo("Cache is empty")
					return nil
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Directory: %s", fc.Dir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache: %w", err)
	}
	return cache.NewFileCache(dir)
}
