package controller

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/internal/tui/panes"
	"github.com/gitavk/ktile/pkg/logging"
)

// Update is the single entry point for every message the program
// receives. It mutates the model in place and returns follow-up
// commands.
func Update(m *model.Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Ready = msg.Width > 0 && msg.Height > 0
		return nil
	case tea.KeyMsg:
		return handleKey(m, msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return cmd
	case model.TickMsg:
		return tickCmd(tickRate(m))
	}

	// Stream messages share one channel; after handling one the reader
	// is re-armed so producers never block.
	if s, ok := msg.(model.StreamMsg); ok {
		return tea.Batch(handleStream(m, s), m.WaitForEvent())
	}

	return handleResult(m, msg)
}

func tickRate(m *model.Model) time.Duration {
	if ms := m.Config.General.TickRateMs; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return time.Second
}

// handleStream applies one event-channel message.
func handleStream(m *model.Model, msg model.StreamMsg) tea.Cmd {
	switch msg := msg.(type) {
	case model.ResourceSnapshotMsg:
		applySnapshot(m, msg)
	case model.PaneOutputMsg:
		if p, err := m.PaneByID(msg.PaneID); err == nil {
			switch p := p.(type) {
			case *panes.TerminalPane:
				p.Feed(msg.Data)
			case *panes.ExecPane:
				p.Feed(msg.Data)
			}
		}
	case model.PaneExitedMsg:
		applyPaneExit(m, msg)
	case model.LogWakeMsg:
		if p, err := m.PaneByID(msg.PaneID); err == nil {
			if lp, ok := p.(*panes.LogsPane); ok {
				lp.Ingest()
			}
		}
	case model.AppLogMsg:
		for _, p := range m.Panes {
			if ap, ok := p.(*panes.AppLogsPane); ok {
				ap.Append(msg.Entry)
			}
		}
	case model.KubeconfigChangedMsg:
		logging.Info("scope", "Kubeconfig changed on disk, reloading contexts")
		return loadContextsCmd(m.Kubeconfig)
	case model.ConfigFileChangedMsg:
		if m.Config.Features.HotReload {
			return reloadConfigCmd()
		}
	}
	return nil
}

// applySnapshot installs a watcher snapshot unless the pane has moved
// on to a newer watcher generation; snapshots from a replaced watcher
// are dropped on the floor.
func applySnapshot(m *model.Model, msg model.ResourceSnapshotMsg) {
	if m.WatcherSeq[msg.PaneID] != msg.Seq {
		return
	}
	p, err := m.PaneByID(msg.PaneID)
	if err != nil {
		return
	}
	lp, ok := p.(*panes.ResourceListPane)
	if !ok {
		return
	}
	if msg.Snapshot.Err != nil {
		lp.SetError(msg.Snapshot.Err.Error())
		return
	}
	lp.SetSnapshot(msg.Snapshot)
}

func applyPaneExit(m *model.Model, msg model.PaneExitedMsg) {
	p, err := m.PaneByID(msg.PaneID)
	if err != nil {
		return
	}
	switch p := p.(type) {
	case *panes.TerminalPane:
		p.MarkExited()
	case *panes.ExecPane:
		p.MarkExited(msg.Err)
	}
	// A dead session cannot consume keys anymore.
	if m.FocusedID() == msg.PaneID && m.Mode == model.ModeInsert {
		m.Mode = model.ModeNormal
	}
}

// handleResult applies one-shot command results.
func handleResult(m *model.Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case model.NamespacesLoadedMsg:
		if msg.Err != nil {
			return toastCmd(m, "Namespaces: "+msg.Err.Error(), model.StatusBarError)
		}
		m.Namespaces = msg.Namespaces
		if m.Picker != nil && m.Mode == model.ModeNamespaceSelector {
			m.Picker.SetItems(msg.Namespaces)
		}
		return nil

	case model.ContextsLoadedMsg:
		if msg.Err != nil {
			return toastCmd(m, "Contexts: "+msg.Err.Error(), model.StatusBarError)
		}
		m.Contexts = msg.Contexts
		if m.ContextName == "" {
			m.ContextName = msg.Current
		}
		if m.Picker != nil && m.Mode == model.ModeContextSelector {
			m.Picker.SetItems(msg.Contexts)
		}
		return nil

	case model.ContextSwitchedMsg:
		return applyContextSwitch(m, msg)

	case model.ConfigReloadedMsg:
		if msg.Err != nil {
			return toastCmd(m, "Config reload: "+msg.Err.Error(), model.StatusBarError)
		}
		m.Config = msg.Config
		m.Dispatch.Rebind(msg.Config.Keybindings)
		logging.Info("config", "Configuration reloaded")
		return toastCmd(m, "Config reloaded", model.StatusBarSuccess)

	case model.YAMLLoadedMsg:
		applyTextResult(m, msg.Origin, msg.Body, msg.Err)
		return nil
	case model.DescribeLoadedMsg:
		applyTextResult(m, msg.Origin, msg.Body, msg.Err)
		return nil

	case model.ResourceDeletedMsg:
		if msg.Err != nil {
			logging.Error("resource", msg.Err, "Delete %s %s/%s failed", msg.Kind, msg.Namespace, msg.Name)
			return toastCmd(m, "Delete: "+msg.Err.Error(), model.StatusBarError)
		}
		return toastCmd(m, fmt.Sprintf("Deleted %s %q", msg.Kind.DisplayName(), msg.Name), model.StatusBarSuccess)

	case model.ScaledMsg:
		if msg.Err != nil {
			logging.Error("resource", msg.Err, "Scale %s %s/%s failed", msg.Kind, msg.Namespace, msg.Name)
			return toastCmd(m, "Scale: "+msg.Err.Error(), model.StatusBarError)
		}
		return toastCmd(m, fmt.Sprintf("Scaled %q to %d replicas", msg.Name, msg.Replicas), model.StatusBarSuccess)

	case model.RolloutRestartedMsg:
		if msg.Err != nil {
			return toastCmd(m, "Rollout: "+msg.Err.Error(), model.StatusBarError)
		}
		return toastCmd(m, fmt.Sprintf("Rollout restart of %q requested", msg.Name), model.StatusBarSuccess)

	case model.LogStreamStartedMsg:
		return applyLogStream(m, msg)

	case model.ExecStartedMsg:
		return applyExecStart(m, msg)

	case model.LogsSavedMsg:
		if msg.Err != nil {
			return toastCmd(m, "Save: "+msg.Err.Error(), model.StatusBarError)
		}
		return toastCmd(m, "Saved "+msg.Path, model.StatusBarSuccess)

	case model.QueryTargetDetectedMsg:
		if msg.Err != nil {
			return toastCmd(m, "Detect: "+msg.Err.Error(), model.StatusBarError)
		}
		m.QueryDialog = model.NewQueryDialog(msg.Target)
		m.Mode = model.ModeQueryDialog
		return nil

	case model.QueryConnectedMsg:
		if qp := queryPaneFor(m, msg.PaneID); qp != nil {
			if msg.Err != nil {
				qp.SetConnectError(msg.Err.Error())
			} else {
				qp.SetConnected(msg.Version)
			}
			if m.FocusedID() == msg.PaneID {
				m.Mode = qp.Mode()
			}
		}
		return nil

	case model.QueryResultMsg:
		if qp := queryPaneFor(m, msg.PaneID); qp != nil {
			if msg.Err != nil {
				qp.SetQueryError(msg.Err.Error())
			} else {
				qp.SetResult(msg.Result)
			}
			if m.FocusedID() == msg.PaneID {
				m.Mode = qp.Mode()
			}
		}
		return nil

	case model.QuerySchemaMsg:
		if qp := queryPaneFor(m, msg.PaneID); qp != nil {
			qp.SetSchema(msg.Tables, msg.Columns)
		}
		return nil

	case model.QueryExecuteMsg:
		if qp := queryPaneFor(m, msg.PaneID); qp != nil {
			return runQueryCmd(m.Client, msg.PaneID, qp.Target(), msg.SQL)
		}
		return nil

	case model.PortForwardDetectedMsg:
		if msg.Err != nil {
			return toastCmd(m, "Port detect: "+msg.Err.Error(), model.StatusBarError)
		}
		d := &model.PortForwardDialog{
			Namespace:   msg.Namespace,
			Pod:         msg.Pod,
			Local:       "0",
			ActiveField: model.FieldRemote,
		}
		if msg.Remote > 0 {
			d.Remote = strconv.Itoa(int(msg.Remote))
		}
		m.ForwardDialog = d
		m.Mode = model.ModePortForwardDialog
		return nil

	case model.PortForwardStartedMsg:
		if msg.Err != nil {
			logging.Error("forward", msg.Err, "Port forward to %s/%s failed", msg.Namespace, msg.Pod)
			return toastCmd(m, "Forward: "+msg.Err.Error(), model.StatusBarError)
		}
		m.Forwards.Add(msg.Forward)
		logging.Info("forward", "Forwarding localhost:%d -> %s/%s:%d",
			msg.Forward.LocalPort, msg.Namespace, msg.Pod, msg.Forward.RemotePort)
		return toastCmd(m, fmt.Sprintf("Forwarding localhost:%d -> %s:%d",
			msg.Forward.LocalPort, msg.Pod, msg.Forward.RemotePort), model.StatusBarSuccess)

	case model.ForwardStoppedMsg:
		return toastCmd(m, "Stopped forward to "+msg.Target, model.StatusBarInfo)

	case model.ToastMsg:
		return toastCmd(m, msg.Text, msg.Type)

	case model.ClearStatusBarMsg:
		m.StatusBarMessage = ""
		m.StatusBarClearCancel = nil
		return nil
	}

	return nil
}

// applyContextSwitch installs the client built for a new context.
// Every tab moves with it: background tabs keep their namespace but
// share the cluster connection, and all watchers rebind.
func applyContextSwitch(m *model.Model, msg model.ContextSwitchedMsg) tea.Cmd {
	if msg.Err != nil {
		logging.Error("scope", msg.Err, "Context switch to %q failed", msg.Context)
		return toastCmd(m, "Context switch: "+msg.Err.Error(), model.StatusBarError)
	}
	m.Client = msg.Client
	m.ContextName = msg.Context
	if msg.Namespaces != nil {
		m.Namespaces = msg.Namespaces
	}
	for _, t := range m.Tabs.Tabs() {
		t.Scope.Client = msg.Client
		t.Scope.Context = msg.Context
		t.Scope.Namespaces = msg.Namespaces
	}
	rebindAllWatchers(m)
	logging.Info("scope", "Context switched to %q", msg.Context)
	return toastCmd(m, "Context: "+msg.Context, model.StatusBarSuccess)
}

func applyTextResult(m *model.Model, id pane.ID, body string, err error) {
	p, perr := m.PaneByID(id)
	if perr != nil {
		return
	}
	vt, ok := p.(*panes.TextPane)
	if !ok {
		return
	}
	if err != nil {
		vt.SetError(err.Error())
		return
	}
	vt.SetContent(body)
}

// applyLogStream attaches a started log stream, or stops it if its
// pane closed while the stream was being opened.
func applyLogStream(m *model.Model, msg model.LogStreamStartedMsg) tea.Cmd {
	p, err := m.PaneByID(msg.PaneID)
	lp, ok := p.(*panes.LogsPane)
	if err != nil || !ok {
		if msg.Stream != nil {
			msg.Stream.Stop()
		}
		return nil
	}
	if msg.Err != nil {
		lp.SetStreamError(msg.Err.Error())
		return nil
	}
	lp.AttachStream(msg.Stream)
	return nil
}

func applyExecStart(m *model.Model, msg model.ExecStartedMsg) tea.Cmd {
	p, err := m.PaneByID(msg.PaneID)
	ep, ok := p.(*panes.ExecPane)
	if err != nil || !ok {
		if msg.Session != nil {
			msg.Session.Stop()
		}
		return nil
	}
	if msg.Err != nil {
		ep.SetError(msg.Err.Error())
		if m.FocusedID() == msg.PaneID && m.Mode == model.ModeInsert {
			m.Mode = model.ModeNormal
		}
		return nil
	}
	ep.AttachSession(msg.Session, m.Events)
	return nil
}

func queryPaneFor(m *model.Model, id pane.ID) *panes.QueryPane {
	p, err := m.PaneByID(id)
	if err != nil {
		return nil
	}
	qp, _ := p.(*panes.QueryPane)
	return qp
}
