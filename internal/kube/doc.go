// Package kube is ktile's cluster access layer. It wraps client-go with
// the operations the dashboard needs and keeps everything else out.
//
// # Core Components
//
// Client: one kubeconfig context's connections (typed clientset, dynamic
// client, REST config). Context switches build a fresh Client so panes
// bound to the old one keep working until rebound.
//
// Resource registry: the ResourceKind enumeration maps display names and
// kubectl-style short names onto GroupVersionResources for the dynamic
// client, and knows which kinds are cluster-scoped.
//
// Watchers: RunWatcher maintains a list+watch loop per pane, re-emitting
// the complete summarized table after every change and retrying with
// backoff when the stream drops.
//
// Sessions: log tailing, interactive exec, SQL queries through exec, and
// port-forwards each get a small handle type (LogStream, ExecSession,
// Forward) owning its goroutines and answering to Stop.
//
// # Usage Example
//
//	client, err := kube.NewClient(kube.Options{Context: "staging"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	go kube.RunWatcher(ctx, client.Dynamic, kube.KindPods, client.Namespace, send)
//
// # Thread Safety
//
// Client is safe for concurrent use; the session handles serialize their
// own state. Snapshot values are immutable once delivered.
package kube
