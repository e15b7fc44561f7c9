package cmd

import (
	"fmt"
	"text/tabwriter"

	"storage-sample/core/config"

	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  `Prints every configuration key with its environment variable, default and current value. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tENV\tDEFAULT\tVALUE")
		for _, s := range config.Settings(cfg) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Key, s.Env, s.Default, s.Masked())
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
