package options

import (
	"github.com/spf13/cobra"
)

// LoginOptions
type LoginOptions struct {
	Phone string
	Code  string
}

func AddLoginArgs(cmd *cobra.Command, o *LoginOptions) {
	cmd.Flags().StringVarP(&o.Phone, "phone", "p", "",
		"Phone number the account is registered with.")
	cmd.Flags().StringVar(&o.Code, "code", "",
		"Verification code. Asked for when omitted.")
}
