package controller

import (
	"context"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/internal/tui/panes"
	"github.com/gitavk/ktile/pkg/logging"
)

// startWatcher binds a resource subscription to a pane, replacing any
// previous one. The new subscription gets the pane's next sequence
// number; snapshots from the replaced subscription still in flight
// carry the old number and are discarded on arrival, so correctness
// never depends on how quickly the old goroutine notices its context.
func startWatcher(m *model.Model, id pane.ID, kind kube.ResourceKind, namespace string) {
	stopWatcher(m, id)

	seq := m.WatcherSeq[id] + 1
	m.WatcherSeq[id] = seq

	ctx, cancel := context.WithCancel(context.Background())
	m.WatcherCancel[id] = cancel

	events := m.Events
	client := m.Client.Dynamic
	go kube.RunWatcher(ctx, client, kind, namespace, func(s kube.Snapshot) {
		select {
		case events <- model.ResourceSnapshotMsg{PaneID: id, Seq: seq, Snapshot: s}:
		case <-ctx.Done():
		}
	})
	logging.Debug("watcher", "pane %d seq %d: watching %s ns=%q", id, seq, kind, namespace)
}

// stopWatcher cancels a pane's subscription. The sequence entry stays
// so a later rebind continues the pane's series.
func stopWatcher(m *model.Model, id pane.ID) {
	if cancel, ok := m.WatcherCancel[id]; ok {
		cancel()
		delete(m.WatcherCancel, id)
	}
}

// releaseWatcher tears down a closing pane's subscription state
// entirely. Pane ids are never reused, so dropping the sequence entry
// is safe.
func releaseWatcher(m *model.Model, id pane.ID) {
	stopWatcher(m, id)
	delete(m.WatcherSeq, id)
}

// watchScope computes the namespace a list pane's subscription covers.
// Cluster-scoped kinds and the all-namespaces toggle widen it to the
// whole cluster; otherwise the pane follows its tab's namespace.
func watchScope(m *model.Model, id pane.ID, lp *panes.ResourceListPane) string {
	if !lp.Kind().Namespaced() || lp.AllNamespaces() {
		return ""
	}
	if t := m.Tabs.OwnerOf(id); t != nil && t != m.Tabs.Active() && t.Scope.Namespace != "" {
		return t.Scope.Namespace
	}
	return m.Namespace
}

// rebindWatcher restarts the subscription of one list pane at its next
// sequence number.
func rebindWatcher(m *model.Model, id pane.ID) {
	lp, ok := m.Panes[id].(*panes.ResourceListPane)
	if !ok {
		return
	}
	startWatcher(m, id, lp.Kind(), watchScope(m, id, lp))
}

// rebindAllWatchers restarts every live subscription, used after a
// context switch replaced the cluster client.
func rebindAllWatchers(m *model.Model) {
	for id := range m.Panes {
		rebindWatcher(m, id)
	}
}

// rebindTabWatchers restarts the subscriptions of every list pane in
// one tab, used when the tab's namespace changes.
func rebindTabWatchers(m *model.Model, t *model.Tab) {
	for _, id := range t.Tree.LeafIDs() {
		rebindWatcher(m, id)
	}
}
