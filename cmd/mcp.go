package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/gitavk/ktile/internal/kube"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve read-only cluster tools over the Model Context Protocol",
		Long: `Runs an MCP server on stdin/stdout exposing read-only tools against
the connected cluster: resource tables, manifests, namespaces and
kubeconfig contexts. Point an MCP-capable client at "ktile mcp" to give
it the same view of the cluster the dashboard shows.`,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	client, err := kube.NewClient(kube.Options{
		Kubeconfig: flagKubeconfig,
		Context:    flagContext,
		Namespace:  flagNamespace,
	})
	if err != nil {
		return err
	}

	mcpServer := server.NewMCPServer(
		"ktile",
		rootCmd.Version,
		server.WithToolCapabilities(true),
	)
	mcpServer.AddTools(mcpTools(client)...)

	return server.ServeStdio(mcpServer)
}

// mcpCallTimeout bounds every cluster round-trip a tool makes, so a hung
// apiserver surfaces as a tool error instead of a stuck MCP client.
const mcpCallTimeout = 30 * time.Second

func mcpTools(client *kube.Client) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("resource_kinds",
				mcp.WithDescription("List the resource kinds ktile knows, with their short names and whether they are namespaced"),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				type kindInfo struct {
					Kind       string `json:"kind"`
					ShortName  string `json:"short_name"`
					Namespaced bool   `json:"namespaced"`
				}
				kinds := kube.AllKinds()
				out := make([]kindInfo, 0, len(kinds))
				for _, k := range kinds {
					out = append(out, kindInfo{
						Kind:       k.DisplayName(),
						ShortName:  k.ShortName(),
						Namespaced: k.Namespaced(),
					})
				}
				return jsonToolResult(out)
			},
		},
		{
			Tool: mcp.NewTool("resource_list",
				mcp.WithDescription("List resources of one kind as a table of summary rows"),
				mcp.WithString("kind",
					mcp.Required(),
					mcp.Description("Resource kind, by name or short name (e.g. Pods, deploy, svc)"),
				),
				mcp.WithString("namespace",
					mcp.Description("Namespace to list in. Defaults to the connection namespace; pass an empty string for all namespaces."),
				),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				kindArg, err := req.RequireString("kind")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				kind, ok := kube.KindFromName(kindArg)
				if !ok {
					return mcp.NewToolResultError(fmt.Sprintf("unknown resource kind %q, try resource_kinds", kindArg)), nil
				}
				namespace := req.GetString("namespace", client.Namespace)

				ctx, cancel := context.WithTimeout(ctx, mcpCallTimeout)
				defer cancel()
				snap, err := client.List(ctx, kind, namespace)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return jsonToolResult(struct {
					Headers []string   `json:"headers"`
					Rows    [][]string `json:"rows"`
				}{Headers: snap.Headers, Rows: snap.Rows})
			},
		},
		{
			Tool: mcp.NewTool("resource_yaml",
				mcp.WithDescription("Fetch the live manifest of one resource as YAML"),
				mcp.WithString("kind",
					mcp.Required(),
					mcp.Description("Resource kind, by name or short name"),
				),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Object name"),
				),
				mcp.WithString("namespace",
					mcp.Description("Namespace of the object. Defaults to the connection namespace."),
				),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				kindArg, err := req.RequireString("kind")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				name, err := req.RequireString("name")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				kind, ok := kube.KindFromName(kindArg)
				if !ok {
					return mcp.NewToolResultError(fmt.Sprintf("unknown resource kind %q, try resource_kinds", kindArg)), nil
				}
				namespace := req.GetString("namespace", client.Namespace)

				ctx, cancel := context.WithTimeout(ctx, mcpCallTimeout)
				defer cancel()
				manifest, err := client.GetYAML(ctx, kind, namespace, name)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return mcp.NewToolResultText(manifest), nil
			},
		},
		{
			Tool: mcp.NewTool("cluster_overview",
				mcp.WithDescription("Summarize the workloads in a namespace: object counts per kind and how many are not fully ready"),
				mcp.WithString("namespace",
					mcp.Description("Namespace to summarize. Defaults to the connection namespace; pass an empty string for the whole cluster."),
				),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				namespace := req.GetString("namespace", client.Namespace)

				ctx, cancel := context.WithTimeout(ctx, mcpCallTimeout)
				defer cancel()
				entries, err := client.Overview(ctx, namespace)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				type kindSummary struct {
					Kind     string `json:"kind"`
					Total    int    `json:"total"`
					NotReady int    `json:"not_ready"`
				}
				out := make([]kindSummary, 0, len(entries))
				for _, e := range entries {
					out = append(out, kindSummary{
						Kind:     e.Kind.DisplayName(),
						Total:    e.Total,
						NotReady: e.NotReady,
					})
				}
				return jsonToolResult(out)
			},
		},
		{
			Tool: mcp.NewTool("namespaces",
				mcp.WithDescription("List the namespaces in the connected cluster"),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				ctx, cancel := context.WithTimeout(ctx, mcpCallTimeout)
				defer cancel()
				names, err := client.Namespaces(ctx)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return jsonToolResult(names)
			},
		},
		{
			Tool: mcp.NewTool("contexts",
				mcp.WithDescription("List the contexts in the kubeconfig and which one this server is connected to"),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				names, _, err := kube.Contexts(flagKubeconfig)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return jsonToolResult(struct {
					Contexts []string `json:"contexts"`
					Current  string   `json:"current"`
				}{Contexts: names, Current: client.Context})
			},
		},
	}
}

func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
