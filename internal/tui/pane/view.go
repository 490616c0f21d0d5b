package pane

import "github.com/gitavk/ktile/internal/kube"

// ViewKind enumerates the content variants a pane can show.
type ViewKind int

const (
	ViewEmpty ViewKind = iota
	ViewResourceList
	ViewDetail
	ViewYAML
	ViewTerminal
	ViewLogs
	ViewExec
	ViewQuery
	ViewPortForwards
	ViewAppLogs
	ViewHelp
	ViewPlugin
)

// ViewType describes what a pane shows. It decides which concrete pane
// implementation backs a leaf and which watcher, if any, it needs. The
// zero value is the empty view.
type ViewType struct {
	Kind      ViewKind
	Resource  kube.ResourceKind // list, detail and yaml views
	Name      string            // object, pod, or plugin name
	Namespace string            // namespace of Name where applicable
}

func ListView(kind kube.ResourceKind) ViewType {
	return ViewType{Kind: ViewResourceList, Resource: kind}
}

func DetailView(kind kube.ResourceKind, namespace, name string) ViewType {
	return ViewType{Kind: ViewDetail, Resource: kind, Namespace: namespace, Name: name}
}

func YAMLView(kind kube.ResourceKind, namespace, name string) ViewType {
	return ViewType{Kind: ViewYAML, Resource: kind, Namespace: namespace, Name: name}
}

func TerminalView() ViewType { return ViewType{Kind: ViewTerminal} }

func LogsView(namespace, pod string) ViewType {
	return ViewType{Kind: ViewLogs, Namespace: namespace, Name: pod}
}

func ExecView(namespace, pod string) ViewType {
	return ViewType{Kind: ViewExec, Namespace: namespace, Name: pod}
}

func QueryView(namespace, pod string) ViewType {
	return ViewType{Kind: ViewQuery, Namespace: namespace, Name: pod}
}

func PortForwardsView() ViewType { return ViewType{Kind: ViewPortForwards} }

func AppLogsView() ViewType { return ViewType{Kind: ViewAppLogs} }

func HelpView() ViewType { return ViewType{Kind: ViewHelp} }

func EmptyView() ViewType { return ViewType{Kind: ViewEmpty} }

func PluginView(name string) ViewType {
	return ViewType{Kind: ViewPlugin, Name: name}
}

// NeedsWatcher reports whether this view is kept fresh by a background
// resource subscription.
func (v ViewType) NeedsWatcher() bool {
	return v.Kind == ViewResourceList
}

// Title is the short label shown in pane headers and the status bar.
func (v ViewType) Title() string {
	switch v.Kind {
	case ViewResourceList:
		return v.Resource.DisplayName()
	case ViewDetail:
		return v.Resource.DisplayName() + ": " + v.Name
	case ViewYAML:
		return "YAML: " + v.Name
	case ViewTerminal:
		return "Terminal"
	case ViewLogs:
		return "Logs: " + v.Name
	case ViewExec:
		return "Exec: " + v.Name
	case ViewQuery:
		return "Query: " + v.Name
	case ViewPortForwards:
		return "Port Forwards"
	case ViewAppLogs:
		return "App Logs"
	case ViewHelp:
		return "Help"
	case ViewPlugin:
		return "Plugin: " + v.Name
	default:
		return "Empty"
	}
}
