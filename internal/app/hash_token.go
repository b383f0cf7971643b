package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FxEmbed/polyglot/internal/auth"
)

func newHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token [token]",
		Short: "Print a bcrypt hash for ACCESS_TOKEN_HASH",
		Long:  "Print a bcrypt hash for ACCESS_TOKEN_HASH. The token is read from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := translateInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(token) == "" {
				return usageError("token must not be empty")
			}

			hash, err := auth.HashToken(token)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
