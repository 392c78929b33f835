package cli

import (
	"errors"
	"fmt"
	"time"

	"breakerbox/internal/auth"
	"breakerbox/internal/config"

	"github.com/spf13/cobra"
)

// TokenCmd returns the token command
func TokenCmd() *cobra.Command {
	var (
		subject string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the breaker edit API",
		Long: `Sign an RS256 access token with JWT_PRIVATE_KEY_PATH.

Examples:
  panelctl token --subject tech-42
  panelctl token --subject admin --role admin --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return errors.New("--subject is required")
			}

			cfg := config.Load()
			if ttl <= 0 {
				ttl = cfg.AccessTokenTTL
			}

			mgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTIssuer)
			if err != nil {
				return err
			}

			tok, exp, err := mgr.GenerateAccessToken(subject, roles, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject (user id)")
	cmd.Flags().StringSliceVar(&roles, "role", []string{auth.RoleEditor}, "roles to grant")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default ACCESS_TOKEN_MINUTES)")

	return cmd
}
