//go:build mage

// Build targets for hdsbridge.
//
//	mage build        Compile the hds binary to bin/
//	mage test:all     Run every test
//	mage test:unit    Run tests without the race detector or cache
//	mage lint         Run golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install hds to GOPATH/bin
//	mage stats        Print Go LOC per top-level package as JSON
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "hds"
	binaryDir  = "bin"
	cmdDir     = "./cmd/hds"
)

// Build compiles the hds binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
