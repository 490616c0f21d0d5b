package controller

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/panes"
	"github.com/gitavk/ktile/pkg/logging"
)

// NewProgram connects to the cluster, builds the model with its first
// tab and watcher, starts the background forwarders and wraps it all
// in a Bubble Tea program.
func NewProgram(cfg config.Config, opts kube.Options) (*tea.Program, error) {
	client, err := kube.NewClient(opts)
	if err != nil {
		return nil, err
	}

	configDir, err := config.GetUserConfigDir()
	if err != nil {
		return nil, err
	}

	m := model.New(cfg, client, configDir)
	m.Kubeconfig = kube.KubeconfigPath(opts.Kubeconfig)
	m.ContextName = client.Context
	if opts.Namespace != "" {
		m.Namespace = opts.Namespace
	} else if client.Namespace != "" {
		m.Namespace = client.Namespace
	}

	kind := kube.KindPods
	if k, ok := kube.KindFromName(cfg.General.DefaultView); ok {
		kind = k
	}
	t := m.Tabs.AddTab(m.Tabs.NextName(), currentScope(m))
	m.Panes[t.Focused] = panes.NewResourceList(kind)
	rebindWatcher(m, t.Focused)

	go forwardAppLogs(m)
	go watchFiles(m)

	logging.Info("app", "Starting on context %q, namespace %q, view %s",
		m.ContextName, m.Namespace, kind)

	app := NewAppModel(m)
	return tea.NewProgram(app, tea.WithAltScreen()), nil
}

// forwardAppLogs feeds logger entries into the event channel for the
// app-logs pane.
func forwardAppLogs(m *model.Model) {
	for entry := range logging.Subscribe() {
		m.PostEvent(model.AppLogMsg{Entry: entry})
	}
}

// watchFiles posts change events for the kubeconfig and any config
// file. Watching the parent directories survives the rename-and-replace
// write pattern editors and kubectl use.
func watchFiles(m *model.Model) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("watch", "File watching disabled: %v", err)
		return
	}

	targets := map[string]tea.Msg{}
	if m.Kubeconfig != "" {
		targets[filepath.Clean(m.Kubeconfig)] = model.KubeconfigChangedMsg{}
	}
	for _, p := range config.ConfigPaths() {
		targets[filepath.Clean(p)] = model.ConfigFileChangedMsg{}
	}

	watched := 0
	dirs := map[string]bool{}
	for p := range targets {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.Add(dir); err == nil {
			watched++
		}
	}
	if watched == 0 {
		w.Close()
		return
	}

	const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if msg, ok := targets[filepath.Clean(ev.Name)]; ok && ev.Op&changeOps != 0 {
				m.PostEvent(msg)
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}
