package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8sfake "k8s.io/client-go/kubernetes/fake"
	kscheme "k8s.io/client-go/kubernetes/scheme"
)

func manifestTestObject() *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]interface{}{
			"name":      "demo",
			"namespace": "default",
			"labels":    map[string]interface{}{"app": "demo", "tier": "backend"},
			"managedFields": []interface{}{
				map[string]interface{}{"manager": "kubectl"},
			},
		},
		"spec": map[string]interface{}{"nodeName": "node-1"},
		"status": map[string]interface{}{
			"phase": "Running",
		},
	}}
}

func TestGetYAMLStripsManagedFields(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme, manifestTestObject())
	c := &Client{Dynamic: dyn}

	out, err := c.GetYAML(context.Background(), KindPods, "default", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "name: demo")
	assert.Contains(t, out, "kind: Pod")
	assert.NotContains(t, out, "managedFields")
	assert.NotContains(t, out, "kubectl")
}

func TestGetYAMLMissingObject(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme)
	c := &Client{Dynamic: dyn}

	_, err := c.GetYAML(context.Background(), KindPods, "default", "gone")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	event := &corev1.Event{
		ObjectMeta:     metav1.ObjectMeta{Name: "demo.1", Namespace: "default"},
		InvolvedObject: corev1.ObjectReference{Name: "demo", Namespace: "default"},
		Type:           "Warning",
		Reason:         "BackOff",
		Message:        "Back-off restarting failed container",
	}
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme, manifestTestObject())
	c := &Client{Dynamic: dyn, Clientset: k8sfake.NewSimpleClientset(event)}

	out, err := c.Describe(context.Background(), KindPods, "default", "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "Name:          demo")
	assert.Contains(t, out, "Namespace:     default")
	assert.Contains(t, out, "Kind:          Pod")
	assert.Contains(t, out, "app=demo")
	assert.Contains(t, out, "tier=backend")
	assert.Contains(t, out, "Status:        Running")
	assert.Contains(t, out, "Node:          node-1")
	assert.Contains(t, out, "Events:")
	assert.Contains(t, out, "BackOff")
	assert.Contains(t, out, "Back-off restarting failed container")
}

func TestDescribeWithoutEvents(t *testing.T) {
	dyn := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme, manifestTestObject())
	c := &Client{Dynamic: dyn, Clientset: k8sfake.NewSimpleClientset()}

	out, err := c.Describe(context.Background(), KindPods, "default", "demo")
	require.NoError(t, err)
	assert.NotContains(t, out, "Events:")
}
