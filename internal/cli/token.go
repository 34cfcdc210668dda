package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/password"
)

func newHashTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token",
		Short: "Print the bcrypt hash of an admin token read from stdin",
		Long: `Read the admin token from the first line of stdin and print its bcrypt hash.
Put the hash into admin.token_hash (or ADMIN_TOKEN_HASH); the token itself is
never stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("token is required on stdin")
			}
			token := strings.TrimSpace(line)
			if token == "" {
				return errors.New("token is empty")
			}
			hash, err := password.GetHash(token)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
