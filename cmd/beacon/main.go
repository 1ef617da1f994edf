// Command beacon builds GraphQL schemas from SDL and schema directives,
// prints the compiled schema and runs operations against JSON fixtures.
package main

import cli "github.com/hanpama/beacon/internal/cli"

func main() {
	cli.Execute()
}
