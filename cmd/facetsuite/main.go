package main

import (
	"os"

	"github.com/G-Research/facetsuite/cmd/facetsuite/cmd"
	"github.com/G-Research/facetsuite/internal/common"
)

// Config is handled by cmd/params.go
func main() {
	common.ConfigureCommandLineLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
