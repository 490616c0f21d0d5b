package kube

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kscheme "k8s.io/client-go/kubernetes/scheme"
	ktesting "k8s.io/client-go/testing"
)

func newPendingPodObject(namespace, name string) *unstructured.Unstructured {
	pod := newPodObject(namespace, name)
	_ = unstructured.SetNestedField(pod.Object, "Pending", "status", "phase")
	return pod
}

func newDeploymentObject(namespace, name string, ready, total int64) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
		"status": map[string]interface{}{
			"replicas":      total,
			"readyReplicas": ready,
		},
	}}
}

func TestOverviewCountsEveryKind(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme,
		newPodObject("default", "alpha"),
		newPendingPodObject("default", "bravo"),
		newDeploymentObject("default", "web", 1, 2),
		newDeploymentObject("default", "api", 2, 2),
	)
	client := &Client{Dynamic: dyn, Namespace: "default"}

	entries, err := client.Overview(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, entries, len(overviewKinds))

	assert.Equal(t, KindPods, entries[0].Kind)
	assert.Equal(t, 2, entries[0].Total)
	assert.Equal(t, 1, entries[0].NotReady, "the pending pod counts against readiness")

	assert.Equal(t, KindDeployments, entries[1].Kind)
	assert.Equal(t, 2, entries[1].Total)
	assert.Equal(t, 1, entries[1].NotReady, "1/2 ready counts, 2/2 does not")

	for _, e := range entries[2:] {
		assert.Zero(t, e.Total, "%s is empty", e.Kind)
		assert.Zero(t, e.NotReady)
	}
}

func TestOverviewScopedToNamespace(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme,
		newPodObject("default", "alpha"),
		newPodObject("other", "zeta"),
	)
	client := &Client{Dynamic: dyn, Namespace: "default"}

	scoped, err := client.Overview(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, 1, scoped[0].Total)

	all, err := client.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, all[0].Total, "an empty namespace spans the cluster")
}

func TestOverviewFailsWhenOneListingFails(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme)
	dyn.PrependReactor("list", "deployments", func(action ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})
	client := &Client{Dynamic: dyn, Namespace: "default"}

	_, err := client.Overview(context.Background(), "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing deploy")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRowNotReady(t *testing.T) {
	tests := []struct {
		name string
		kind ResourceKind
		row  []string
		want bool
	}{
		{"running pod", KindPods, []string{"a", "ns", "Running", "1/1", "0", "5m", "n1"}, false},
		{"succeeded pod", KindPods, []string{"a", "ns", "Succeeded", "0/1", "0", "5m", "n1"}, false},
		{"pending pod", KindPods, []string{"a", "ns", "Pending", "0/1", "0", "5s", ""}, true},
		{"failed pod", KindPods, []string{"a", "ns", "Failed", "0/1", "3", "1h", "n2"}, true},
		{"full deployment", KindDeployments, []string{"web", "ns", "2/2", "2", "2", "1d"}, false},
		{"short deployment", KindDeployments, []string{"web", "ns", "1/2", "2", "1", "1d"}, true},
		{"short statefulset", KindStatefulSets, []string{"db", "ns", "0/1", "1d"}, true},
		{"complete job", KindJobs, []string{"backup", "ns", "1/1", "30s", "1h"}, false},
		{"running job", KindJobs, []string{"backup", "ns", "0/1", "", "10s"}, true},
		{"full daemonset", KindDaemonSets, []string{"agent", "ns", "3", "3", "3", "1d"}, false},
		{"short daemonset", KindDaemonSets, []string{"agent", "ns", "3", "3", "2", "1d"}, true},
		{"service", KindServices, []string{"svc", "ns", "ClusterIP", "10.0.0.1", "<none>", "80/TCP", "1d"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rowNotReady(tt.kind, tt.row))
		})
	}
}
