//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const buildPackage = "github.com/G-Research/facetsuite/internal/facetsuite/build"

// Clean up after yourself
func Clean() {
	fmt.Println("Cleaning...")
	for _, path := range []string{"bin", "dist", "test_reports"} {
		os.RemoveAll(path)
	}
}

// Build compiles the facetsuite binary into ./bin, stamped with version information.
func Build() error {
	mg.Deps(goCheck)
	ldflags, err := versionLdflags()
	if err != nil {
		return err
	}
	return goRun("build", "-ldflags", ldflags, "-o", binaryWithExt("bin/facetsuite"), "./cmd/facetsuite")
}

// Cross compiles release binaries for every supported platform into ./dist.
func Cross() error {
	mg.Deps(goCheck)
	ldflags, err := versionLdflags()
	if err != nil {
		return err
	}
	return goRun("run", "github.com/mitchellh/gox",
		"-osarch", strings.Join(releasePlatforms, " "),
		"-ldflags", ldflags,
		"-output", "dist/facetsuite_{{.OS}}_{{.Arch}}",
		"./cmd/facetsuite",
	)
}

// Fmt rewrites imports and formatting of every Go source file.
func Fmt() error {
	return goRun("run", "golang.org/x/tools/cmd/goimports", "-w", "-local", "github.com/G-Research/facetsuite", "cmd", "internal", "magefiles")
}

var releasePlatforms = []string{"linux/amd64", "linux/arm64", "darwin/amd64", "darwin/arm64"}

func versionLdflags() (string, error) {
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "UNKNOWN"
	}
	version := os.Getenv("RELEASE_VERSION")
	if version == "" {
		version = "dev"
	}
	goVer, err := goOutput("env", "GOVERSION")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"-X %[1]s.ReleaseVersion=%[2]s -X %[1]s.GitCommit=%[3]s -X %[1]s.GoVersion=%[4]s -X %[1]s.BuildTime=%[5]s",
		buildPackage, version, commit, goVer, time.Now().UTC().Format(time.RFC3339),
	), nil
}
