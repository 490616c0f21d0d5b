package kube

import (
	"bufio"
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// logScrollback caps the in-memory line buffer per log stream.
const logScrollback = 5000

// LogStream tails one container's logs into a bounded in-memory buffer.
// A reader goroutine appends lines and fires notify at most once per
// unconsumed batch; Lines re-arms notification.
type LogStream struct {
	mu      sync.Mutex
	lines   []string
	err     error
	closed  bool
	pending atomic.Bool
	notify  func()
	cancel  context.CancelFunc
}

// TailLogs starts following a pod's logs, keeping at most tail lines of
// history. With an empty container the pod's first container is used.
// notify is called from the reader goroutine whenever new lines are
// waiting.
func (c *Client) TailLogs(ctx context.Context, namespace, pod, container string, tail int64, notify func()) (*LogStream, error) {
	if container == "" {
		p, err := c.Clientset.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("resolving container of pod %s: %w", pod, err)
		}
		if len(p.Spec.Containers) == 0 {
			return nil, fmt.Errorf("pod %s has no containers", pod)
		}
		container = p.Spec.Containers[0].Name
	}

	streamCtx, cancel := context.WithCancel(ctx)
	if tail <= 0 {
		tail = 1000
	}
	req := c.Clientset.CoreV1().Pods(namespace).GetLogs(pod, &corev1.PodLogOptions{
		Container: container,
		Follow:    true,
		TailLines: &tail,
	})
	rc, err := req.Stream(streamCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("streaming logs of %s/%s: %w", namespace, pod, err)
	}

	s := &LogStream{notify: notify, cancel: cancel}
	go func() {
		defer rc.Close()
		scanner := bufio.NewScanner(rc)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			s.append(scanner.Text())
		}
		s.finish(scanner.Err())
	}()
	return s, nil
}

func (s *LogStream) append(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	if over := len(s.lines) - logScrollback; over > 0 {
		s.lines = append(s.lines[:0:0], s.lines[over:]...)
	}
	s.mu.Unlock()
	s.wake()
}

func (s *LogStream) finish(err error) {
	s.mu.Lock()
	s.closed = true
	if err != nil && s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.wake()
}

func (s *LogStream) wake() {
	if s.pending.CompareAndSwap(false, true) {
		s.notify()
	}
}

// Lines snapshots the buffer and re-arms notification. closed reports
// whether the stream has ended (err carries the reason when abnormal).
func (s *LogStream) Lines() (lines []string, closed bool, err error) {
	s.mu.Lock()
	lines = append([]string(nil), s.lines...)
	closed, err = s.closed, s.err
	s.mu.Unlock()
	s.pending.Store(false)
	return lines, closed, err
}

// Stop cancels the stream. Safe to call more than once.
func (s *LogStream) Stop() {
	s.cancel()
}

// FetchLogs retrieves a container's complete log without following.
// Every line is prefixed with an RFC3339 timestamp by the API server.
func (c *Client) FetchLogs(ctx context.Context, namespace, pod, container string) ([]string, error) {
	if container == "" {
		p, err := c.Clientset.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("resolving container of pod %s: %w", pod, err)
		}
		if len(p.Spec.Containers) == 0 {
			return nil, fmt.Errorf("pod %s has no containers", pod)
		}
		container = p.Spec.Containers[0].Name
	}

	req := c.Clientset.CoreV1().Pods(namespace).GetLogs(pod, &corev1.PodLogOptions{
		Container:  container,
		Timestamps: true,
	})
	rc, err := req.Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching logs of %s/%s: %w", namespace, pod, err)
	}
	defer rc.Close()

	var lines []string
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
