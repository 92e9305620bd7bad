package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/seed"
)

type setPINOptions struct {
	*rootOptions
	Role string
	PIN  string
}

func newSetPINCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &setPINOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set-pin",
		Short: "Replace the user or admin PIN",
		Example: `  behaviorchart set-pin --role user --pin 2468
  behaviorchart set-pin --role admin --pin 13579`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			role := model.Role(opts.Role)
			if !role.Valid() {
				return fmt.Errorf("--role must be %q or %q", model.RoleUser, model.RoleAdmin)
			}

			e, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer e.store.Close()

			if err := seed.SetPIN(cmd.Context(), e.store, role, opts.PIN); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s PIN updated\n", role)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Role, "role", string(model.RoleUser), "which PIN to set: user or admin")
	cmd.Flags().StringVar(&opts.PIN, "pin", "", "the new PIN (required)")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}
