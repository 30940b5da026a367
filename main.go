// Package main is the entry point for the classmut CLI.
package main

import "gooze.dev/pkg/classmut/cmd"

func main() {
	cmd.Execute()
}
