package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/1broseidon/mira/internal/ipc"
	"github.com/1broseidon/mira/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mira mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Lets an MCP client (an AI assistant or editor) drive the running daemon:")
	fmt.Fprintln(w, "toggle overlay click-through and visibility, push events to the overlays,")
	fmt.Fprintln(w, "move or resize the toolbar, and inspect monitors and windows.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Serve the tools on stdio")
	fmt.Fprintln(w, "  tools    List the tools and what they do")
}

func printMCPServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mira mcp serve")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Each tool call is forwarded to the mira daemon over its IPC socket, so")
	fmt.Fprintln(w, "'mira daemon' must already be running. Example client entry:")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, `  {"mcpServers": {"mira": {"command": "mira", "args": ["mcp", "serve"]}}}`)
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "tools":
		return printMCPTools(os.Stdout)
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func printMCPTools(w io.Writer) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range mcp.Tools() {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Description)
	}
	if err := tw.Flush(); err != nil {
		return 1
	}
	return 0
}

func runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		printMCPServeUsage(os.Stdout)
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "mcp serve takes no arguments")
		printMCPServeUsage(os.Stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcp.NewServer(ipc.NewClient()).Run(ctx); err != nil {
		log.Printf("MCP server error: %v", err)
		return 1
	}
	return 0
}
