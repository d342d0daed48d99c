package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blogapi/internal/adapters/auth"
)

func newHashPasswordCmd() *cobra.Command {
	var iterations int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a password hash for seeding accounts",
		Long:  "Print a PBKDF2 PHC string for the password given as argument, or read from stdin when omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := auth.NewPBKDF2Hasher(iterations).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&iterations, "iterations", auth.DefaultIterations, "PBKDF2 iterations")
	return cmd
}
