package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octobees/prospector/internal/auth"
)

// token: mint a bearer token for the HTTP API.
func tokenCmd() *cobra.Command {
	var subject, role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != auth.RoleOperator && role != auth.RoleViewer {
				return fmt.Errorf("role must be %q or %q", auth.RoleOperator, auth.RoleViewer)
			}
			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).GenerateToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. an operator name")
	cmd.Flags().StringVar(&role, "role", auth.RoleOperator, "operator or viewer")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
