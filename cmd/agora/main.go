// Command agora is the operator CLI for the agora forum store.
package main

import "github.com/mesh-intelligence/agora/internal/cli"

func main() {
	cli.Execute()
}
