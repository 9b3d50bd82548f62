// Package mcp connects tool registries to the Model Context Protocol.
//
// [NewServer] exposes a [tool.Registry] to MCP clients such as desktop
// assistants. [Dial] connects to an external MCP server so its tools can be
// registered next to local ones and offered to an agent.
//
//	registry := tool.NewRegistry().Add(tool.NewSearchTool(tavily))
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
package mcp
