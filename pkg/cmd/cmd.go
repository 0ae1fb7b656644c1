// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/configs"
)

var (
	cfgPath string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   "docvault",
		Short: "A document repository with versioning, archival and search",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configs.InitConfig(cfgPath)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "./", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
	registerStorageCommands()
	registerServeCommand()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
