//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "phonemask"

var Default = Build

// Build compiles the phonemask binary.
func Build() error {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := fmt.Sprintf("-X codeberg.org/snonux/phonemask/internal.Version=%s", version)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binary, "./cmd/phonemask")
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Integration reruns all tests uncached. Tests needing espeak-ng,
// OPENAI_API_KEY, GEMINI_API_KEY or REDIS_URL skip themselves otherwise.
func Integration() error {
	return sh.RunV("go", "test", "-count=1", "-v", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs phonemask into GOPATH/bin.
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/phonemask")
}

// Clean removes the built binary.
func Clean() error {
	return os.RemoveAll(binary)
}
