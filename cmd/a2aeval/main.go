// Command a2aeval is the CLI entry point for the A2A security
// evaluation orchestrator.
package main

import "github.com/redforge/a2aeval/src/cmd"

func main() {
	cmd.Execute()
}
