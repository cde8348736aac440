// Package cli implements the boxpull command tree using Cobra.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// verbosity is the -v count shared by all subcommands.
var verbosity int

var rootCmd = &cobra.Command{
	Use:   "boxpull",
	Short: "Pull container image layer blobs onto the local file system",
	Long: `boxpull resolves a container image reference against an OCI registry and
downloads the image's layer blobs to a local directory, one file per layer
named by digest. Blobs are written exactly as served; nothing is unpacked.`,
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("username", "", "username for authenticating with the OCI registry")
	pf.String("password", "", "password for authenticating with the OCI registry")
	pf.CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.MarkFlagsRequiredTogether("username", "password")

	// Credentials may come from the environment instead of flags.
	cobra.CheckErr(viper.BindPFlag("username", pf.Lookup("username")))
	cobra.CheckErr(viper.BindPFlag("password", pf.Lookup("password")))
	cobra.CheckErr(viper.BindEnv("username", "OCI_USERNAME"))
	cobra.CheckErr(viper.BindEnv("password", "OCI_PASSWORD"))

	rootCmd.AddCommand(newPullCmd())
}
