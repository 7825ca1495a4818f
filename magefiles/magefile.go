//go:build mage

// Package main contains Mage build targets for news-reader developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "news-reader"
	cmdPkg  = "./cmd/news-reader"
)

// projectDirs lists the local directories the CLI reads from or writes to.
var projectDirs = []string{
	".secrets",
	"data",
	"searches",
}

// sampleConfig is written by Init when no config file exists yet.
const sampleConfig = `keyword: technology
log_level: info
guardian:
  page_size: 42
archive:
  driver: sqlite3
  dsn: data/news-reader.db
`

// Init creates the local directories and a starter news-reader.yaml.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat("news-reader.yaml"); os.IsNotExist(err) {
		if err := os.WriteFile("news-reader.yaml", []byte(sampleConfig), 0o644); err != nil {
			return fmt.Errorf("writing news-reader.yaml: %w", err)
		}
		fmt.Println("   news-reader.yaml")
	}
	fmt.Println("Project initialized. Put your API key in .secrets/guardian-api-key.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	mg.Deps(Vet)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Clean removes build output.
func Clean() error {
	fmt.Println("Removing", binDir)
	return sh.Rm(binDir)
}
