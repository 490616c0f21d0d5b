package model

import (
	"time"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/pkg/logging"
)

// StreamMsg marks messages that arrive through the model's event
// channel rather than as the result of a one-shot command. After
// handling one, the update loop re-arms the channel reader.
type StreamMsg interface {
	stream()
}

// ---- Stream messages (watchers, panes, file watches) ----

// ResourceSnapshotMsg carries a fresh table for a resource list pane.
// Seq guards against snapshots from a watcher the pane has replaced.
type ResourceSnapshotMsg struct {
	PaneID   pane.ID
	Seq      uint64
	Snapshot kube.Snapshot
}

// PaneOutputMsg carries raw terminal bytes produced by a PTY or an
// exec session.
type PaneOutputMsg struct {
	PaneID pane.ID
	Data   []byte
}

// PaneExitedMsg reports that a pane's underlying process or stream
// ended.
type PaneExitedMsg struct {
	PaneID pane.ID
	Err    error
}

// LogWakeMsg signals that a log stream has unread lines.
type LogWakeMsg struct {
	PaneID pane.ID
}

// AppLogMsg forwards one entry from the application logger.
type AppLogMsg struct {
	Entry logging.LogEntry
}

// KubeconfigChangedMsg fires when the kubeconfig file is rewritten.
type KubeconfigChangedMsg struct{}

// ConfigFileChangedMsg fires when a loaded config file is rewritten.
type ConfigFileChangedMsg struct{}

func (ResourceSnapshotMsg) stream()  {}
func (PaneOutputMsg) stream()        {}
func (PaneExitedMsg) stream()        {}
func (LogWakeMsg) stream()           {}
func (AppLogMsg) stream()            {}
func (KubeconfigChangedMsg) stream() {}
func (ConfigFileChangedMsg) stream() {}

// ---- Cluster scope messages ----

type NamespacesLoadedMsg struct {
	Namespaces []string
	Err        error
}

type ContextsLoadedMsg struct {
	Contexts []string
	Current  string
	Err      error
}

// ContextSwitchedMsg delivers the client built for the new context
// together with its namespace list.
type ContextSwitchedMsg struct {
	Context    string
	Client     *kube.Client
	Namespaces []string
	Err        error
}

type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

// ---- Resource operation messages ----

type YAMLLoadedMsg struct {
	Origin    pane.ID
	Kind      kube.ResourceKind
	Namespace string
	Name      string
	Body      string
	Err       error
}

type DescribeLoadedMsg struct {
	Origin    pane.ID
	Kind      kube.ResourceKind
	Namespace string
	Name      string
	Body      string
	Err       error
}

type ResourceDeletedMsg struct {
	Kind      kube.ResourceKind
	Namespace string
	Name      string
	Err       error
}

type ScaledMsg struct {
	Kind      kube.ResourceKind
	Namespace string
	Name      string
	Replicas  int
	Err       error
}

type RolloutRestartedMsg struct {
	Namespace string
	Name      string
	Err       error
}

// ---- Logs and exec messages ----

// LogStreamStartedMsg attaches a running log stream to its pane.
type LogStreamStartedMsg struct {
	PaneID pane.ID
	Stream *kube.LogStream
	Err    error
}

// ExecStartedMsg attaches a running exec session to its pane.
type ExecStartedMsg struct {
	PaneID  pane.ID
	Session *kube.ExecSession
	Err     error
}

// LogsSavedMsg reports the outcome of writing log lines to disk.
type LogsSavedMsg struct {
	Path string
	Err  error
}

// ---- Query messages ----

// QueryTargetDetectedMsg carries connection details sniffed from a
// pod's environment, used to prefill the connection dialog.
type QueryTargetDetectedMsg struct {
	Target kube.QueryTarget
	Err    error
}

// QueryConnectedMsg reports the server version probe for a new
// query pane.
type QueryConnectedMsg struct {
	PaneID  pane.ID
	Version string
	Err     error
}

// QueryResultMsg delivers the rows of an executed statement.
type QueryResultMsg struct {
	PaneID pane.ID
	SQL    string
	Result kube.QueryResult
	Err    error
}

// QuerySchemaMsg delivers table and column names for completion.
type QuerySchemaMsg struct {
	PaneID  pane.ID
	Tables  []string
	Columns map[string][]string
}

// QueryExecuteMsg asks the controller to run one statement for a query
// pane.
type QueryExecuteMsg struct {
	PaneID pane.ID
	SQL    string
}

// ---- Port forward messages ----

// PortForwardDetectedMsg carries the suggested remote port for the
// port-forward dialog.
type PortForwardDetectedMsg struct {
	Namespace string
	Pod       string
	Remote    uint16
	Err       error
}

type PortForwardStartedMsg struct {
	Namespace string
	Pod       string
	Forward   *kube.Forward
	Err       error
}

// ForwardStoppedMsg reports that a tunnel was torn down from the
// port-forwards pane.
type ForwardStoppedMsg struct {
	ID     string
	Target string
}

// ---- Housekeeping messages ----

// ToastMsg surfaces a transient status bar message from a pane.
type ToastMsg struct {
	Text string
	Type MessageType
}

// TickMsg drives age columns and runtime pane polling.
type TickMsg time.Time

// ClearStatusBarMsg wipes the transient status bar message.
type ClearStatusBarMsg struct{}
