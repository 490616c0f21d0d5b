package kube

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kscheme "k8s.io/client-go/kubernetes/scheme"
	ktesting "k8s.io/client-go/testing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newPodObject(namespace, name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]interface{}{
			"name":              name,
			"namespace":         namespace,
			"creationTimestamp": time.Now().UTC().Format(time.RFC3339),
		},
		"status": map[string]interface{}{"phase": "Running"},
	}}
}

func nextSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

// waitForWatch blocks until the watcher goroutine has registered its watch,
// so that subsequent fake-client mutations reach it.
func waitForWatch(t *testing.T, dyn *dynamicfake.FakeDynamicClient) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, action := range dyn.Actions() {
			if action.GetVerb() == "watch" {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunWatcherEmitsFullSnapshots(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme, newPodObject("default", "alpha"))
	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan Snapshot, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		RunWatcher(ctx, dyn, KindPods, "default", func(s Snapshot) { snapshots <- s })
	}()

	first := nextSnapshot(t, snapshots)
	require.NoError(t, first.Err)
	assert.Equal(t, Headers(KindPods), first.Headers)
	require.Len(t, first.Rows, 1)
	assert.Equal(t, "alpha", first.Rows[0][0])

	waitForWatch(t, dyn)

	gvr := KindPods.GroupVersionResource()
	_, err := dyn.Resource(gvr).Namespace("default").Create(ctx, newPodObject("default", "beta"), metav1.CreateOptions{})
	require.NoError(t, err)

	second := nextSnapshot(t, snapshots)
	require.NoError(t, second.Err)
	require.Len(t, second.Rows, 2)
	assert.Equal(t, "alpha", second.Rows[0][0])
	assert.Equal(t, "beta", second.Rows[1][0])

	err = dyn.Resource(gvr).Namespace("default").Delete(ctx, "alpha", metav1.DeleteOptions{})
	require.NoError(t, err)

	third := nextSnapshot(t, snapshots)
	require.Len(t, third.Rows, 1)
	assert.Equal(t, "beta", third.Rows[0][0])

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestRunWatcherScopedToNamespace(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme, newPodObject("default", "alpha"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots := make(chan Snapshot, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		RunWatcher(ctx, dyn, KindPods, "default", func(s Snapshot) { snapshots <- s })
	}()

	first := nextSnapshot(t, snapshots)
	require.Len(t, first.Rows, 1)

	waitForWatch(t, dyn)

	gvr := KindPods.GroupVersionResource()
	_, err := dyn.Resource(gvr).Namespace("other").Create(ctx, newPodObject("other", "hidden"), metav1.CreateOptions{})
	require.NoError(t, err)
	_, err = dyn.Resource(gvr).Namespace("default").Create(ctx, newPodObject("default", "beta"), metav1.CreateOptions{})
	require.NoError(t, err)

	second := nextSnapshot(t, snapshots)
	require.Len(t, second.Rows, 2)
	for _, row := range second.Rows {
		assert.NotEqual(t, "hidden", row[0])
	}

	cancel()
	<-done
}

func TestRunWatcherAllNamespaces(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme,
		newPodObject("default", "alpha"),
		newPodObject("other", "zeta"),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots := make(chan Snapshot, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		RunWatcher(ctx, dyn, KindPods, "", func(s Snapshot) { snapshots <- s })
	}()

	first := nextSnapshot(t, snapshots)
	require.Len(t, first.Rows, 2)
	assert.Equal(t, "alpha", first.Rows[0][0])
	assert.Equal(t, "default", first.Rows[0][1])
	assert.Equal(t, "zeta", first.Rows[1][0])
	assert.Equal(t, "other", first.Rows[1][1])

	cancel()
	<-done
}

func TestRunWatcherReportsListErrors(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme)
	dyn.PrependReactor("list", "pods", func(action ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan Snapshot, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		RunWatcher(ctx, dyn, KindPods, "default", func(s Snapshot) { snapshots <- s })
	}()

	first := nextSnapshot(t, snapshots)
	require.Error(t, first.Err)
	assert.Contains(t, first.Err.Error(), "connection refused")
	assert.Equal(t, Headers(KindPods), first.Headers)
	assert.Empty(t, first.Rows)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop while backing off")
	}
}
