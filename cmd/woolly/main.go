// Package main provides the woolly CLI.
package main

import "github.com/woolly-dev/woolly/internal/cli"

func main() {
	cli.Execute()
}
