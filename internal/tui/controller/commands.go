package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/internal/tui/panes"
)

// opTimeout bounds one-shot cluster calls so a dead API server cannot
// wedge the UI; queries get longer because they run user SQL.
const (
	opTimeout    = 30 * time.Second
	queryTimeout = 60 * time.Second
)

func tickCmd(rate time.Duration) tea.Cmd {
	return tea.Tick(rate, func(t time.Time) tea.Msg { return model.TickMsg(t) })
}

// toastCmd shows a transient status bar message.
func toastCmd(m *model.Model, text string, msgType model.MessageType) tea.Cmd {
	return m.SetStatusMessage(text, msgType, 4*time.Second)
}

func loadNamespacesCmd(client *kube.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		ns, err := client.Namespaces(ctx)
		return model.NamespacesLoadedMsg{Namespaces: ns, Err: err}
	}
}

func loadContextsCmd(kubeconfig string) tea.Cmd {
	return func() tea.Msg {
		contexts, current, err := kube.Contexts(kubeconfig)
		return model.ContextsLoadedMsg{Contexts: contexts, Current: current, Err: err}
	}
}

// switchContextCmd builds a client for the chosen context and fetches
// its namespaces in the same step, so the UI flips over atomically.
func switchContextCmd(client *kube.Client, name string) tea.Cmd {
	return func() tea.Msg {
		next, err := client.SwitchContext(name)
		if err != nil {
			return model.ContextSwitchedMsg{Context: name, Err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		ns, nsErr := next.Namespaces(ctx)
		if nsErr != nil {
			// The context is usable even when namespaces cannot be listed.
			ns = nil
		}
		return model.ContextSwitchedMsg{Context: name, Client: next, Namespaces: ns}
	}
}

func reloadConfigCmd() tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.LoadConfig()
		return model.ConfigReloadedMsg{Config: cfg, Err: err}
	}
}

func loadYAMLCmd(client *kube.Client, origin pane.ID, kind kube.ResourceKind, namespace, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		body, err := client.GetYAML(ctx, kind, namespace, name)
		return model.YAMLLoadedMsg{Origin: origin, Kind: kind, Namespace: namespace, Name: name, Body: body, Err: err}
	}
}

func loadDescribeCmd(client *kube.Client, origin pane.ID, kind kube.ResourceKind, namespace, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		body, err := client.Describe(ctx, kind, namespace, name)
		return model.DescribeLoadedMsg{Origin: origin, Kind: kind, Namespace: namespace, Name: name, Body: body, Err: err}
	}
}

func deleteResourceCmd(client *kube.Client, kind kube.ResourceKind, namespace, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		err := client.Delete(ctx, kind, namespace, name)
		return model.ResourceDeletedMsg{Kind: kind, Namespace: namespace, Name: name, Err: err}
	}
}

func scaleResourceCmd(client *kube.Client, kind kube.ResourceKind, namespace, name string, replicas int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		err := client.Scale(ctx, kind, namespace, name, replicas)
		return model.ScaledMsg{Kind: kind, Namespace: namespace, Name: name, Replicas: replicas, Err: err}
	}
}

func restartRolloutCmd(client *kube.Client, kind kube.ResourceKind, namespace, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		err := client.RestartRollout(ctx, kind, namespace, name)
		return model.RolloutRestartedMsg{Namespace: namespace, Name: name, Err: err}
	}
}

// startLogStreamCmd resolves the pod's first container and opens a
// follow stream. New lines wake the update loop through the shared
// event channel; rendering drains them on the wake.
func startLogStreamCmd(m *model.Model, id pane.ID, namespace, pod string) tea.Cmd {
	client := m.Client
	tail := m.Config.General.LogTailLines
	post := m.PostEvent
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		container, err := client.FirstContainer(ctx, namespace, pod)
		cancel()
		if err != nil {
			return model.LogStreamStartedMsg{PaneID: id, Err: err}
		}
		stream, err := client.TailLogs(context.Background(), namespace, pod, container, tail, func() {
			post(model.LogWakeMsg{PaneID: id})
		})
		return model.LogStreamStartedMsg{PaneID: id, Stream: stream, Err: err}
	}
}

// startExecCmd attaches an interactive shell to the pod's first
// container. Output lands on the event channel via a PaneWriter.
func startExecCmd(m *model.Model, id pane.ID, namespace, pod string) tea.Cmd {
	client := m.Client
	events := m.Events
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		container, err := client.FirstContainer(ctx, namespace, pod)
		cancel()
		if err != nil {
			return model.ExecStartedMsg{PaneID: id, Err: err}
		}
		session, err := client.StartExec(context.Background(), kube.ExecOptions{
			Namespace: namespace,
			Pod:       pod,
			Container: container,
		}, panes.PaneWriter{ID: id, Events: events})
		return model.ExecStartedMsg{PaneID: id, Session: session, Err: err}
	}
}

// downloadLogsCmd fetches the container's full log, not just the
// streamed tail, and writes it next to the saved ones.
func downloadLogsCmd(client *kube.Client, configDir, namespace, pod, container string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		lines, err := client.FetchLogs(ctx, namespace, pod, container)
		if err != nil {
			return model.LogsSavedMsg{Err: err}
		}
		return saveLogsCmd(configDir, pod, lines)()
	}
}

// saveLogsCmd writes the pane's current lines under the config
// directory, named after the pod and a timestamp.
func saveLogsCmd(configDir, pod string, lines []string) tea.Cmd {
	return func() tea.Msg {
		dir := filepath.Join(configDir, "logs")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.LogsSavedMsg{Err: err}
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", pod, time.Now().Format("20060102-150405")))
		data := strings.Join(lines, "\n")
		if len(lines) > 0 {
			data += "\n"
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return model.LogsSavedMsg{Err: err}
		}
		return model.LogsSavedMsg{Path: path}
	}
}

func detectQueryCmd(client *kube.Client, namespace, pod string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		target, err := client.DetectPostgres(ctx, namespace, pod)
		return model.QueryTargetDetectedMsg{Target: target, Err: err}
	}
}

// connectQueryCmd probes the server so the pane can show a version
// banner, proving the connection settings before any user SQL runs.
func connectQueryCmd(client *kube.Client, id pane.ID, target kube.QueryTarget) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		res, err := client.RunQuery(ctx, target, "SELECT version()")
		if err != nil {
			return model.QueryConnectedMsg{PaneID: id, Err: err}
		}
		var version string
		if len(res.Rows) > 0 && len(res.Rows[0]) > 0 {
			version = res.Rows[0][0]
		}
		return model.QueryConnectedMsg{PaneID: id, Version: version}
	}
}

func runQueryCmd(client *kube.Client, id pane.ID, target kube.QueryTarget, sql string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		res, err := client.RunQuery(ctx, target, sql)
		return model.QueryResultMsg{PaneID: id, SQL: sql, Result: res, Err: err}
	}
}

// loadSchemaCmd pulls table and column names for completion. Failures
// are silent; completion simply stays empty.
func loadSchemaCmd(client *kube.Client, id pane.ID, target kube.QueryTarget) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		res, err := client.RunQuery(ctx, target,
			"SELECT table_name, column_name FROM information_schema.columns WHERE table_schema = 'public' ORDER BY table_name, ordinal_position")
		if err != nil {
			return nil
		}
		columns := make(map[string][]string)
		var tables []string
		for _, row := range res.Rows {
			if len(row) < 2 {
				continue
			}
			table, column := row[0], row[1]
			if _, seen := columns[table]; !seen {
				tables = append(tables, table)
			}
			columns[table] = append(columns[table], column)
		}
		return model.QuerySchemaMsg{PaneID: id, Tables: tables, Columns: columns}
	}
}

func detectForwardPortCmd(client *kube.Client, namespace, pod string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		remote := client.DetectRemotePort(ctx, namespace, pod)
		return model.PortForwardDetectedMsg{Namespace: namespace, Pod: pod, Remote: remote}
	}
}

func startForwardCmd(client *kube.Client, namespace, pod string, local, remote uint16) tea.Cmd {
	return func() tea.Msg {
		f, err := client.StartPortForward(context.Background(), namespace, pod, local, remote)
		return model.PortForwardStartedMsg{Namespace: namespace, Pod: pod, Forward: f, Err: err}
	}
}
