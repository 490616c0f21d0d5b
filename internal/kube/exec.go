package kube

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
)

// ExecOptions address one container for an interactive session. An empty
// Command starts a shell, preferring bash when the image has it.
type ExecOptions struct {
	Namespace string
	Pod       string
	Container string
	Command   []string
}

// ExecSession is an attached TTY inside a pod container. Output bytes are
// written to the writer passed to StartExec; input goes through Write;
// Done closes when the remote side ends.
type ExecSession struct {
	stdin  io.WriteCloser
	sizes  chan remotecommand.TerminalSize
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// StartExec attaches an interactive TTY session, streaming remote output
// into out. The session ends when the remote process exits or Stop is
// called.
func (c *Client) StartExec(ctx context.Context, opts ExecOptions, out io.Writer) (*ExecSession, error) {
	command := opts.Command
	if len(command) == 0 {
		command = []string{"sh", "-c", "command -v bash >/dev/null 2>&1 && exec bash || exec sh"}
	}

	req := c.Clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(opts.Namespace).
		Name(opts.Pod).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: opts.Container,
			Command:   command,
			Stdin:     true,
			Stdout:    true,
			TTY:       true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(c.RestConfig, http.MethodPost, req.URL())
	if err != nil {
		return nil, fmt.Errorf("creating exec transport for %s/%s: %w", opts.Namespace, opts.Pod, err)
	}

	sessCtx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	s := &ExecSession{
		stdin:  pw,
		sizes:  make(chan remotecommand.TerminalSize, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer pr.Close()
		err := executor.StreamWithContext(sessCtx, remotecommand.StreamOptions{
			Stdin:             pr,
			Stdout:            out,
			Tty:               true,
			TerminalSizeQueue: s,
		})
		if err != nil && sessCtx.Err() == nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
	}()
	return s, nil
}

// Write sends input bytes to the remote TTY.
func (s *ExecSession) Write(p []byte) (int, error) {
	return s.stdin.Write(p)
}

// Resize reports a new terminal size. The latest pending size wins.
func (s *ExecSession) Resize(width, height int) {
	size := remotecommand.TerminalSize{Width: uint16(width), Height: uint16(height)}
	for {
		select {
		case s.sizes <- size:
			return
		default:
			select {
			case <-s.sizes:
			default:
			}
		}
	}
}

// Next implements remotecommand.TerminalSizeQueue.
func (s *ExecSession) Next() *remotecommand.TerminalSize {
	select {
	case size, ok := <-s.sizes:
		if !ok {
			return nil
		}
		return &size
	case <-s.done:
		return nil
	}
}

// Done closes when the remote process has exited.
func (s *ExecSession) Done() <-chan struct{} { return s.done }

// Err reports the session failure, if any, once Done is closed.
func (s *ExecSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop tears the session down.
func (s *ExecSession) Stop() {
	s.cancel()
	s.stdin.Close()
}

// ExecCapture runs a one-shot command in a container without a TTY and
// returns its output.
func (c *Client) ExecCapture(ctx context.Context, namespace, pod, container string, command []string) (string, string, error) {
	req := c.Clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(namespace).
		Name(pod).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   command,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(c.RestConfig, http.MethodPost, req.URL())
	if err != nil {
		return "", "", fmt.Errorf("creating exec transport for %s/%s: %w", namespace, pod, err)
	}

	var stdout, stderr bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return stdout.String(), stderr.String(),
			fmt.Errorf("exec in %s/%s: %w", namespace, pod, err)
	}
	return stdout.String(), stderr.String(), nil
}

// FirstContainer returns the name of the pod's first container.
func (c *Client) FirstContainer(ctx context.Context, namespace, pod string) (string, error) {
	p, err := c.Clientset.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("getting pod %s/%s: %w", namespace, pod, err)
	}
	if len(p.Spec.Containers) == 0 {
		return "", fmt.Errorf("pod %s has no containers", pod)
	}
	return p.Spec.Containers[0].Name, nil
}
