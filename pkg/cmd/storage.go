package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	blob "github.com/yeisme/docvault/pkg/internal/storage/blob"
)

var (
	storageCmd = &cobra.Command{
		Use:     "storage",
		Short:   "Blob storage related commands",
		Aliases: []string{"blob"},
	}

	storageListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered blob backends",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered blob backends:")
			for _, b := range blob.GetRegisteredBackends() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(b))
			}
		},
	}
)

// registerStorageCommands 注册 Blob 存储相关命令.
func registerStorageCommands() {
	rootCmd.AddCommand(storageCmd)
	storageCmd.AddCommand(storageListCmd)
}
