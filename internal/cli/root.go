// Package cli реализует служебную утилиту portalctl: поиск по индексу,
// хэширование токена администратора и применение миграций.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand создает корневую команду portalctl.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Service utility for the AWFixer portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSearchCommand(),
		newHashTokenCommand(),
		newMigrateCommand(),
	)
	return root
}
