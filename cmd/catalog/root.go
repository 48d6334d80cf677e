package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog service with merchant feed sync",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "additional .env files to load")

	serve := newServeCmd(&envFiles)
	root.RunE = serve.RunE
	root.AddCommand(serve, newSyncCmd(&envFiles), newVersionCmd())
	return root
}
