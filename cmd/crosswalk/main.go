// Package main provides the entry point for the crosswalk CLI tool.
package main

import "github.com/caresync/crosswalk/cmd/crosswalk/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
