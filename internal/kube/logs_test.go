package kube

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

func TestTailLogsStreamsUntilEOF(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "web-0", Namespace: "default"},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "web"}},
		},
	}
	c := &Client{Clientset: k8sfake.NewSimpleClientset(pod)}

	var wakeups atomic.Int32
	s, err := c.TailLogs(context.Background(), "default", "web-0", "", 1000, func() { wakeups.Add(1) })
	require.NoError(t, err)
	defer s.Stop()

	// The fake clientset serves a fixed body and closes the stream.
	require.Eventually(t, func() bool {
		_, closed, _ := s.Lines()
		return closed
	}, 5*time.Second, 10*time.Millisecond)

	lines, closed, streamErr := s.Lines()
	assert.True(t, closed)
	assert.NoError(t, streamErr)
	require.NotEmpty(t, lines)
	assert.Equal(t, "fake logs", lines[0])
	assert.GreaterOrEqual(t, wakeups.Load(), int32(1))
}

func TestTailLogsMissingPod(t *testing.T) {
	c := &Client{Clientset: k8sfake.NewSimpleClientset()}
	_, err := c.TailLogs(context.Background(), "default", "gone", "", 1000, func() {})
	assert.Error(t, err)
}

func TestFetchLogsReturnsAllLines(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "web-0", Namespace: "default"},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "web"}},
		},
	}
	c := &Client{Clientset: k8sfake.NewSimpleClientset(pod)}

	lines, err := c.FetchLogs(context.Background(), "default", "web-0", "")
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	assert.Equal(t, "fake logs", lines[0])
}

func TestFetchLogsMissingPod(t *testing.T) {
	c := &Client{Clientset: k8sfake.NewSimpleClientset()}
	_, err := c.FetchLogs(context.Background(), "default", "gone", "")
	assert.Error(t, err)
}

func TestLogStreamCapsScrollback(t *testing.T) {
	s := &LogStream{notify: func() {}}
	for i := 0; i < logScrollback+50; i++ {
		s.append("line")
	}
	lines, _, _ := s.Lines()
	assert.Len(t, lines, logScrollback)
}

func TestLogStreamNotifyCoalesces(t *testing.T) {
	var wakeups atomic.Int32
	s := &LogStream{notify: func() { wakeups.Add(1) }}

	s.append("one")
	s.append("two")
	s.append("three")
	assert.Equal(t, int32(1), wakeups.Load(), "unconsumed batches should wake once")

	lines, _, _ := s.Lines()
	assert.Equal(t, []string{"one", "two", "three"}, lines)

	s.append("four")
	assert.Equal(t, int32(2), wakeups.Load(), "consuming re-arms notification")
}
