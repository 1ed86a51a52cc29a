package util

import "github.com/spf13/cobra"

// CheckError prints err and exits when it is non-nil.
func CheckError(err error) {
	cobra.CheckErr(err)
}
