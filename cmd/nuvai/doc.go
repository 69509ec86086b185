// Package nuvai provides the command-line interface for the Nuvai scanner.
// It configures subcommands (scan, export, baseline, history, etc.), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/nuvai/nuvai/cmd/nuvai"
//	func main() { nuvai.Execute() }
package nuvai
