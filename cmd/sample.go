package cmd

import (
	"os"

	"storage-sample/feature/sample"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sampleCmd runs the walkthrough
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run the object storage walkthrough",
	Long: `Creates a uniquely named bucket, lists buckets, uploads a file, downloads and
prints it, lists objects by prefix, then deletes the object and the bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.logger.Sync()

		cfg := env.cfg.Sample
		if keep, _ := cmd.Flags().GetBool("keep"); keep {
			cfg.Keep = true
		}
		file, _ := cmd.Flags().GetString("file")

		svc := sample.NewService(env.client, cfg, env.logger, os.Stdout)
		report, err := svc.Run(cmd.Context(), file)
		if err != nil {
			sample.ReportError(env.logger, err)
			return err
		}

		env.logger.Info("Walkthrough finished",
			zap.String("bucket", report.Bucket),
			zap.Int("objects", len(report.Listing)),
			zap.Bool("cleaned", report.Cleaned),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().Bool("keep", false, "Keep the bucket and object after the walkthrough")
	sampleCmd.Flags().String("file", "", "Upload this file instead of a generated sample")
}
