package main

import (
	"fmt"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/secondbrain/brain-server/internal/auth"
	"github.com/secondbrain/brain-server/internal/service"
)

// tokenReport describes a verified session token.
type tokenReport struct {
	UserID    string     `json:"user_id"`
	Username  string     `json:"username"`
	Format    string     `json:"format"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func newTokenCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Session token utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <token>",
		Short: "Check a session token against the configured signing key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(opts, func(i do.Injector) error {
				return runTokenVerify(cmd, i, args[0], opts.jsonOutput)
			})
		},
	})

	return cmd
}

func runTokenVerify(cmd *cobra.Command, i do.Injector, token string, jsonOutput bool) error {
	tokens := do.MustInvoke[*auth.TokenService](i)

	claims, err := tokens.Verify(token)
	if err != nil {
		return err
	}

	// The signature alone does not prove the account still exists.
	user, err := do.MustInvoke[*service.AuthService](i).VerifyToken(cmd.Context(), token)
	if err != nil {
		return err
	}

	report := tokenReport{
		UserID:   claims.UserID,
		Username: user.Username,
		Format:   tokens.Format(),
		IssuedAt: claims.IssuedAt,
	}
	if !claims.ExpiresAt.IsZero() {
		report.ExpiresAt = &claims.ExpiresAt
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "valid %s token\n", report.Format)
	fmt.Fprintf(out, "user:    %s (%s)\n", report.Username, report.UserID)
	fmt.Fprintf(out, "issued:  %s\n", report.IssuedAt.Format(time.RFC3339))
	if report.ExpiresAt != nil {
		fmt.Fprintf(out, "expires: %s\n", report.ExpiresAt.Format(time.RFC3339))
	} else {
		fmt.Fprintln(out, "expires: never")
	}
	return nil
}
