package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/dump"
)

// FeedbackOptions
type FeedbackOptions struct {
	Category string
	Message  string
	Rating   int
	Email    string
}

func AddFeedbackArgs(cmd *cobra.Command, o *FeedbackOptions) {
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"One of bug, feature, general or other.")
	cmd.Flags().StringVarP(&o.Message, "message", "m", "",
		"What you want to tell us.")
	cmd.Flags().IntVar(&o.Rating, "rating", 0,
		"Optional rating from 1 to 5.")
	cmd.Flags().StringVar(&o.Email, "email", "",
		"Optional address for a reply.")

	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, 4)
		for _, c := range dump.AllFeedbackCategories() {
			out = append(out, string(c))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

func (o *FeedbackOptions) Form() dump.Feedback {
	return dump.Feedback{
		Category: dump.FeedbackCategory(o.Category),
		Message:  o.Message,
		Rating:   o.Rating,
		Email:    o.Email,
	}
}
