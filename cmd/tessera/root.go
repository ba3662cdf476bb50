package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose  bool
	repo     string
	branch   string
	cacheDir string
	locale   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "tessera",
		Short:         "Tessera compiles declarative UI definitions into markup and stylesheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.repo, "repo", "", "Git URL of a definition library to fetch before loading")
	cmd.PersistentFlags().StringVar(&flags.branch, "branch", "", "Branch to check out when fetching --repo")
	cmd.PersistentFlags().StringVar(&flags.cacheDir, "cache-dir", "", "Where fetched libraries are kept (defaults to the user cache directory)")
	cmd.PersistentFlags().StringVar(&flags.locale, "locale", "", "Locale used for i18n: content")

	cmd.AddCommand(newCompileCmd(flags))
	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newPreviewCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
