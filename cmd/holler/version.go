package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is stamped at build time:
//
//	go build -ldflags "-X main.version=v0.3.0" ./cmd/holler
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the holler version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("holler %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
