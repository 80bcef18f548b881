//go:build tools
// +build tools

package tools

import (
	_ "github.com/mitchellh/gox"
	_ "golang.org/x/tools/cmd/goimports"
)
