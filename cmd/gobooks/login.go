package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuannvm/gobooks/internal/auth"
	"github.com/tuannvm/gobooks/internal/services/books"
)

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "login <api-key>",
		Short: "Save a Google Books API key to the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			var verifier auth.Verifier
			if verify {
				probe := *cfg
				probe.APIKey = args[0]
				verifier = books.NewService(&probe)
			}

			if err := auth.NewService(cfg).Login(cmd.Context(), args[0], verifier); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", cfg.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", true, "check the key with a test search before saving")
	return cmd
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if err := auth.NewService(cfg).Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return nil
		},
	}
}
