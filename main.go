// Command codexreview is an MCP server for git-backed AI code review.
package main

import "github.com/signal-slot/mcp-codexreview/cmd"

func main() {
	cmd.Execute()
}
