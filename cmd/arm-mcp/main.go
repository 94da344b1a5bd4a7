// cmd/arm-mcp/main.go
//
// arm-mcp is the MCP server binary exposing a read-only preview of the
// release manager (status, plan, validate, and a dry-run-only release
// preview) to MCP clients over stdio.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/corvidlabs/arm/internal/mcpserver"
)

const (
	serverName    = "arm-mcp"
	serverVersion = "v1.0.0"
)

func main() {
	repoDir := flag.String("repo", ".", "Path to the git repository to operate on")
	flag.Parse()

	resolveRepo := func() string { return *repoDir }

	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "arm_status",
		Description: "Report the repository's working-tree and release state: dirty, last tag, current branch.",
	}, mcpserver.Status(resolveRepo))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "arm_validate",
		Description: "Validate commits since the last release tag against Conventional Commits.",
	}, mcpserver.Validate(resolveRepo))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "arm_plan",
		Description: "Preview the version bump a release would make right now, with no side effects.",
	}, mcpserver.Plan(resolveRepo))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "arm_release",
		Description: "Preview a full release (changelog, tag, archive) in dry-run mode. Never commits, tags, pushes, or writes an archive.",
	}, mcpserver.Release(resolveRepo))

	log.Printf("%s %s starting...", serverName, serverVersion)
	log.Printf("registered tools: arm_status, arm_validate, arm_plan, arm_release")

	ctx := context.Background()
	transport := &mcpsdk.StdioTransport{}
	if err := server.Run(ctx, transport); err != nil {
		log.Printf("server failed: %v", err)
		os.Exit(1)
	}
}
