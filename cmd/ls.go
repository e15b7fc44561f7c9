package cmd

import (
	"fmt"

	"storage-sample/core/storage"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// lsCmd lists buckets, or the objects of one bucket
var lsCmd = &cobra.Command{
	Use:   "ls [bucket]",
	Short: "List buckets or objects",
	Long:  `Without arguments lists buckets. With a bucket name lists its objects page by page.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.logger.Sync()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			buckets, err := env.client.ListBuckets(ctx)
			if err != nil {
				return err
			}
			for _, b := range buckets {
				fmt.Fprintf(out, "%s  %s\n", b.CreationDate.Format("2006-01-02 15:04:05"), b.Name)
			}
			return nil
		}

		prefix, _ := cmd.Flags().GetString("prefix")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		pager := storage.NewObjectPager(env.client, args[0], storage.ListOptions{Prefix: prefix, MaxKeys: pageSize})
		var count int
		var total int64
		for pager.HasNext() {
			page, err := pager.Next(ctx)
			for _, obj := range page.Objects {
				fmt.Fprintf(out, "%s  %8s  %s\n", obj.LastModified.Format("2006-01-02 15:04:05"), humanize.IBytes(uint64(obj.Size)), obj.Key)
				count++
				total += obj.Size
			}
			if err != nil {
				return err
			}
		}

		env.logger.Debug("Listing finished",
			zap.String("bucket", args[0]),
			zap.Int("objects", count),
			zap.String("total", humanize.IBytes(uint64(total))),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lsCmd)
	lsCmd.Flags().String("prefix", "", "Only list keys starting with this prefix")
	lsCmd.Flags().Int("page-size", storage.DefaultMaxKeys, "Keys requested per page")
}
