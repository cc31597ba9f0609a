package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/identity"
)

var identityFile string

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Show the anonymous voter fingerprint",
	Long: `Holler identifies this device to the Soapbox server with a random
fingerprint so votes survive restarts. No account, no personal data.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(identityProvider().Fingerprint())
	},
}

var identityResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the fingerprint and mint a fresh one",
	Long: `Removes the stored fingerprint. Your existing votes stay counted on the
server, but this device can no longer toggle them.`,
	Run: func(cmd *cobra.Command, args []string) {
		p := identityProvider()
		p.Reset()
		fmt.Println(p.Fingerprint())
	},
}

func init() {
	identityCmd.PersistentFlags().StringVar(&identityFile, "file", "", "identity file path (default ~/.config/holler/identity.toml)")
	identityCmd.AddCommand(identityResetCmd)
	rootCmd.AddCommand(identityCmd)
}

func identityProvider() *identity.Provider {
	return identity.New(identityFile, zap.NewNop())
}
