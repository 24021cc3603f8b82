package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/impactreport/internal/config"
	"github.com/MrJamesThe3rd/impactreport/internal/http/auth"
)

type TokenCmd struct {
	subject string
	ttl     time.Duration
	cfg     *config.Config
}

// NewTokenCmd issues a bearer token for the API.
func NewTokenCmd(cfg *config.Config) *cobra.Command {
	tc := &TokenCmd{cfg: cfg}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token signed with JWT_SECRET",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.subject, "subject", "", "Token subject, e.g. the analyst's name")
	cmd.Flags().DurationVar(&tc.ttl, "ttl", 24*time.Hour, "Token lifetime")

	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func (tc *TokenCmd) run(cmd *cobra.Command, _ []string) error {
	if tc.cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	token, err := auth.GenerateToken([]byte(tc.cfg.Auth.JWTSecret), tc.subject, tc.ttl)
	if err != nil {
		return err
	}

	cmd.Println(token)

	return nil
}
