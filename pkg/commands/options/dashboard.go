package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/bucket"
)

// DashboardOptions
type DashboardOptions struct {
	Bucket string
	All    bool
}

func AddDashboardArgs(cmd *cobra.Command, o *DashboardOptions) {
	cmd.Flags().StringVarP(&o.Bucket, "bucket", "b", "",
		"Only show one bucket: overdue, today, tomorrow, nextWeek, nextMonth or later.")
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Show the items of collapsed buckets too.")

	_ = cmd.RegisterFlagCompletionFunc("bucket", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return BucketNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// BucketNames lists the bucket labels in display order.
func BucketNames() []string {
	names := make([]string, 0, len(bucket.All()))
	for _, b := range bucket.All() {
		names = append(names, b.String())
	}
	return names
}
