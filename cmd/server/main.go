// Command server runs the blog API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Blog API
// @version 1.0
// @description Posts, tags, users and roles behind a JSON envelope. Writes need a jwt session cookie.
// @BasePath /api
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name jwt

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Blog REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newHashPasswordCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
