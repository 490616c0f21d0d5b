package kube

import (
	"context"
	"sort"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/dynamic"
)

// Snapshot is one full-replacement delivery from a resource watcher:
// either the complete current table, or an error. After an error the
// watcher keeps retrying; rows already shown stay valid.
type Snapshot struct {
	Headers []string
	Rows    [][]string
	Err     error
}

const (
	watchRetryMin = time.Second
	watchRetryMax = 30 * time.Second
)

// RunWatcher streams full table snapshots of one resource kind until ctx
// is cancelled. It lists, seeds an internal object map, then follows
// watch events, re-emitting the complete sorted table after every
// change. Stream failures surface as error snapshots and the list+watch
// restarts with backoff. Runs on the caller's goroutine.
func RunWatcher(ctx context.Context, client dynamic.Interface, kind ResourceKind, namespace string, send func(Snapshot)) {
	gvr := kind.GroupVersionResource()
	headers := Headers(kind)
	items := make(map[string]*unstructured.Unstructured)
	backoff := watchRetryMin

	var ri dynamic.ResourceInterface = client.Resource(gvr)
	if kind.Namespaced() && namespace != "" {
		ri = client.Resource(gvr).Namespace(namespace)
	}

	for ctx.Err() == nil {
		list, err := ri.List(ctx, metav1.ListOptions{})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			send(Snapshot{Headers: headers, Err: err})
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, watchRetryMax)
			continue
		}
		backoff = watchRetryMin

		clear(items)
		for i := range list.Items {
			obj := &list.Items[i]
			items[objectKey(obj)] = obj
		}
		send(snapshot(kind, headers, items))

		w, err := ri.Watch(ctx, metav1.ListOptions{ResourceVersion: list.GetResourceVersion()})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			send(Snapshot{Headers: headers, Err: err})
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, watchRetryMax)
			continue
		}

		func() {
			defer w.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-w.ResultChan():
					if !ok {
						return
					}
					obj, isObj := ev.Object.(*unstructured.Unstructured)
					switch ev.Type {
					case watch.Added, watch.Modified:
						if isObj {
							items[objectKey(obj)] = obj
							send(snapshot(kind, headers, items))
						}
					case watch.Deleted:
						if isObj {
							delete(items, objectKey(obj))
							send(snapshot(kind, headers, items))
						}
					case watch.Error:
						// stale resource version or server-side failure;
						// fall out and relist
						return
					}
				}
			}
		}()

		if ctx.Err() == nil && !sleep(ctx, watchRetryMin) {
			return
		}
	}
}

func objectKey(obj *unstructured.Unstructured) string {
	if ns := obj.GetNamespace(); ns != "" {
		return ns + "/" + obj.GetName()
	}
	return obj.GetName()
}

func snapshot(kind ResourceKind, headers []string, items map[string]*unstructured.Unstructured) Snapshot {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Summarize(kind, items[k]))
	}
	return Snapshot{Headers: headers, Rows: rows}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
