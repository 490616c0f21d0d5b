package pane

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitavk/ktile/internal/kube"
)

func TestOnlyListViewsNeedWatchers(t *testing.T) {
	assert.True(t, ListView(kube.KindPods).NeedsWatcher())
	assert.True(t, ListView(kube.KindDeployments).NeedsWatcher())

	for _, v := range []ViewType{
		EmptyView(),
		TerminalView(),
		HelpView(),
		PortForwardsView(),
		LogsView("default", "web-0"),
		ExecView("default", "web-0"),
		QueryView("default", "db-0"),
		YAMLView(kube.KindPods, "default", "web-0"),
		DetailView(kube.KindPods, "default", "web-0"),
		PluginView("topology"),
	} {
		assert.False(t, v.NeedsWatcher(), "%v should not need a watcher", v)
	}
}

func TestViewTitles(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{view: ListView(kube.KindPods), want: "Pods"},
		{view: ListView(kube.KindPersistentVolumeClaims), want: "PersistentVolumeClaims"},
		{view: DetailView(kube.KindPods, "default", "web-0"), want: "Pods: web-0"},
		{view: YAMLView(kube.KindPods, "default", "web-0"), want: "YAML: web-0"},
		{view: LogsView("default", "web-0"), want: "Logs: web-0"},
		{view: ExecView("default", "web-0"), want: "Exec: web-0"},
		{view: QueryView("default", "db-0"), want: "Query: db-0"},
		{view: TerminalView(), want: "Terminal"},
		{view: PortForwardsView(), want: "Port Forwards"},
		{view: HelpView(), want: "Help"},
		{view: PluginView("topology"), want: "Plugin: topology"},
		{view: EmptyView(), want: "Empty"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.view.Title())
	}
}

func TestZeroValueIsEmptyView(t *testing.T) {
	var v ViewType
	assert.Equal(t, EmptyView(), v)
	assert.False(t, v.NeedsWatcher())
}

func TestViewTypesAreComparable(t *testing.T) {
	assert.Equal(t, ListView(kube.KindPods), ListView(kube.KindPods))
	assert.NotEqual(t, ListView(kube.KindPods), ListView(kube.KindServices))
	assert.NotEqual(t, LogsView("default", "a"), LogsView("default", "b"))
}
