package kube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

func podWithPorts(ports ...corev1.ContainerPort) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "web-0", Namespace: "default"},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "web", Ports: ports}},
		},
	}
}

func TestDetectRemotePort(t *testing.T) {
	tests := []struct {
		name  string
		ports []corev1.ContainerPort
		want  uint16
	}{
		{
			name: "http-named port wins",
			ports: []corev1.ContainerPort{
				{ContainerPort: 9090, Name: "metrics"},
				{ContainerPort: 8443, Name: "http-alt"},
			},
			want: 8443,
		},
		{
			name: "web-named port wins",
			ports: []corev1.ContainerPort{
				{ContainerPort: 9090, Name: "metrics"},
				{ContainerPort: 4000, Name: "webui"},
			},
			want: 4000,
		},
		{
			name: "common port preferred over first",
			ports: []corev1.ContainerPort{
				{ContainerPort: 9090},
				{ContainerPort: 8080},
			},
			want: 8080,
		},
		{
			name:  "first declared as fallback",
			ports: []corev1.ContainerPort{{ContainerPort: 9443}, {ContainerPort: 9444}},
			want:  9443,
		},
		{
			name: "no declared ports",
			want: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{Clientset: k8sfake.NewSimpleClientset(podWithPorts(tt.ports...))}
			got := c.DetectRemotePort(context.Background(), "default", "web-0")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectRemotePortMissingPod(t *testing.T) {
	c := &Client{Clientset: k8sfake.NewSimpleClientset()}
	assert.Equal(t, uint16(80), c.DetectRemotePort(context.Background(), "default", "gone"))
}

func testForward(id, namespace, pod string, started time.Time) *Forward {
	return &Forward{
		ID:        id,
		Namespace: namespace,
		Pod:       pod,
		Started:   started,
		stopChan:  make(chan struct{}),
	}
}

func TestForwardRegistry(t *testing.T) {
	r := NewForwardRegistry()
	now := time.Now()
	older := testForward("a", "default", "db-0", now.Add(-time.Minute))
	newer := testForward("b", "default", "web-0", now)
	r.Add(newer)
	r.Add(older)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID, "oldest forward should sort first")
	assert.Equal(t, "b", list[1].ID)

	byPod, ok := r.ByPod("default", "db-0")
	require.True(t, ok)
	assert.Equal(t, "a", byPod.ID)
	_, ok = r.ByPod("default", "missing")
	assert.False(t, ok)

	removed, ok := r.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "a", removed.ID)
	_, ok = r.Remove("a")
	assert.False(t, ok)
	assert.Len(t, r.List(), 1)
}

func TestForwardRegistryStopAll(t *testing.T) {
	r := NewForwardRegistry()
	f1 := testForward("a", "default", "db-0", time.Now())
	f2 := testForward("b", "default", "web-0", time.Now())
	r.Add(f1)
	r.Add(f2)

	r.StopAll()
	assert.Empty(t, r.List())
	select {
	case <-f1.stopChan:
	default:
		t.Error("first forward was not stopped")
	}
	select {
	case <-f2.stopChan:
	default:
		t.Error("second forward was not stopped")
	}
}

func TestForwardStopIsIdempotent(t *testing.T) {
	f := testForward("a", "default", "db-0", time.Now())
	f.Stop()
	f.Stop()
	select {
	case <-f.stopChan:
	default:
		t.Error("stop channel not closed")
	}
}
