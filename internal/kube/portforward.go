package kube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"

	"github.com/gitavk/ktile/pkg/logging"
)

// ErrNoForward is returned when an id does not name an active forward.
var ErrNoForward = errors.New("no such forward")

// forwardReadyTimeout bounds how long StartPortForward waits for the tunnel
// to accept connections.
const forwardReadyTimeout = 30 * time.Second

// Forward is one active port-forward tunnel to a pod.
type Forward struct {
	ID         string
	Namespace  string
	Pod        string
	LocalPort  uint16
	RemotePort uint16
	Started    time.Time

	stopChan chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	err error
}

// Stop tears the tunnel down. Safe to call more than once.
func (f *Forward) Stop() {
	f.stopOnce.Do(func() { close(f.stopChan) })
}

// Err reports the terminal error of the forwarding goroutine, if any.
func (f *Forward) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Age is the time since the forward became ready.
func (f *Forward) Age() time.Duration {
	return time.Since(f.Started)
}

// forwardLogWriter relays the forwarder's stdout/stderr lines into the log.
type forwardLogWriter struct {
	pod     string
	asError bool
}

func (w *forwardLogWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		if w.asError {
			logging.Warn("portforward", "%s: %s", w.pod, line)
		} else {
			logging.Debug("portforward", "%s: %s", w.pod, line)
		}
	}
	return len(p), nil
}

// StartPortForward opens a SPDY tunnel from 127.0.0.1:localPort to
// remotePort on the pod and blocks until it is ready. A localPort of 0
// binds a free port; the returned Forward carries the actual one.
func (c *Client) StartPortForward(ctx context.Context, namespace, pod string, localPort, remotePort uint16) (*Forward, error) {
	reqURL := c.Clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(namespace).
		Name(pod).
		SubResource("portforward").
		URL()

	transport, upgrader, err := spdy.RoundTripperFor(c.RestConfig)
	if err != nil {
		return nil, fmt.Errorf("creating SPDY round tripper: %w", err)
	}
	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, reqURL)

	stopChan := make(chan struct{}, 1)
	readyChan := make(chan struct{})
	ports := []string{fmt.Sprintf("%d:%d", localPort, remotePort)}

	fw, err := portforward.NewOnAddresses(dialer, []string{"127.0.0.1"}, ports,
		stopChan, readyChan,
		&forwardLogWriter{pod: pod}, &forwardLogWriter{pod: pod, asError: true})
	if err != nil {
		return nil, fmt.Errorf("creating port forwarder: %w", err)
	}

	f := &Forward{
		ID:         uuid.NewString(),
		Namespace:  namespace,
		Pod:        pod,
		LocalPort:  localPort,
		RemotePort: remotePort,
		Started:    time.Now(),
		stopChan:   stopChan,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- fw.ForwardPorts()
	}()

	select {
	case <-readyChan:
	case err := <-errChan:
		if err == nil {
			err = fmt.Errorf("port-forward to %s/%s closed before becoming ready", namespace, pod)
		}
		return nil, err
	case <-ctx.Done():
		f.Stop()
		return nil, ctx.Err()
	case <-time.After(forwardReadyTimeout):
		f.Stop()
		return nil, fmt.Errorf("timed out waiting for port-forward to %s/%s", namespace, pod)
	}

	if actual, portErr := fw.GetPorts(); portErr == nil && len(actual) > 0 {
		f.LocalPort = actual[0].Local
	}

	go func() {
		runErr := <-errChan
		f.mu.Lock()
		f.err = runErr
		f.mu.Unlock()
		if runErr != nil {
			logging.Error("portforward", runErr, "Forward to %s/%s:%d terminated", namespace, pod, remotePort)
		}
	}()

	logging.Info("portforward", "Forwarding 127.0.0.1:%d -> %s/%s:%d", f.LocalPort, namespace, pod, remotePort)
	return f, nil
}

// DetectRemotePort suggests a remote port by inspecting the pod's declared
// container ports. Ports named like http/web win, then a handful of common
// ports, then the first declared one. Falls back to 80.
func (c *Client) DetectRemotePort(ctx context.Context, namespace, pod string) uint16 {
	p, err := c.Clientset.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
	if err != nil {
		return 80
	}
	type namedPort struct {
		port uint16
		name string
	}
	var all []namedPort
	for _, container := range p.Spec.Containers {
		for _, cp := range container.Ports {
			if cp.ContainerPort <= 0 || cp.ContainerPort > 65535 {
				continue
			}
			all = append(all, namedPort{port: uint16(cp.ContainerPort), name: cp.Name})
		}
	}
	if len(all) == 0 {
		return 80
	}
	for _, np := range all {
		if strings.Contains(np.name, "http") || strings.Contains(np.name, "web") {
			return np.port
		}
	}
	for _, preferred := range []uint16{80, 8080, 8000, 3000, 5000} {
		for _, np := range all {
			if np.port == preferred {
				return preferred
			}
		}
	}
	return all[0].port
}

// ForwardRegistry tracks active forwards for display and teardown.
type ForwardRegistry struct {
	mu       sync.Mutex
	forwards map[string]*Forward
}

func NewForwardRegistry() *ForwardRegistry {
	return &ForwardRegistry{forwards: make(map[string]*Forward)}
}

func (r *ForwardRegistry) Add(f *Forward) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forwards[f.ID] = f
}

// Remove drops the forward from the registry without stopping it.
func (r *ForwardRegistry) Remove(id string) (*Forward, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forwards[id]
	if ok {
		delete(r.forwards, id)
	}
	return f, ok
}

// Stop tears down the forward with the given id and drops it.
func (r *ForwardRegistry) Stop(id string) error {
	f, ok := r.Remove(id)
	if !ok {
		return ErrNoForward
	}
	f.Stop()
	return nil
}

// ByPod finds the forward targeting the given pod, used for toggling.
func (r *ForwardRegistry) ByPod(namespace, pod string) (*Forward, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.forwards {
		if f.Namespace == namespace && f.Pod == pod {
			return f, true
		}
	}
	return nil, false
}

// List returns the active forwards, oldest first.
func (r *ForwardRegistry) List() []*Forward {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Forward, 0, len(r.forwards))
	for _, f := range r.forwards {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out
}

// StopAll stops and drops every forward.
func (r *ForwardRegistry) StopAll() {
	r.mu.Lock()
	forwards := make([]*Forward, 0, len(r.forwards))
	for _, f := range r.forwards {
		forwards = append(forwards, f)
	}
	r.forwards = make(map[string]*Forward)
	r.mu.Unlock()
	for _, f := range forwards {
		f.Stop()
	}
}
