//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Aliases = map[string]any{
	"install": Install.Release,
}

type Install mg.Namespace

func (Install) Release() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "0",
	}, mg.GoCmd(), "install", "-ldflags", "-w -s", "-trimpath", "./cmd/robotsls")
}

func (Install) Debug() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "0",
	}, mg.GoCmd(), "install", "-gcflags", "all=-N -l", "./cmd/robotsls")
}

func Test() error {
	return sh.RunV(mg.GoCmd(), "test", "-race", "./...")
}

// Lint checks the repository's own robots.txt fixtures with the built CLI.
func Lint() error {
	mg.Deps(Install.Debug)
	return sh.RunV("robotsls", "check", "testdata/robots.txt")
}
