// Package main is the entry point for the goerp CLI.
// It provides browse, inspect and dynamic-call access to OpenERP-compatible
// object servers over JSON-RPC.
package main

import (
	"goerp/cli/cmd"
)

func main() {
	cmd.Execute()
}
