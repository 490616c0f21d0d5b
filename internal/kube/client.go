package kube

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	_ "k8s.io/client-go/plugin/pkg/client/auth" // cloud auth providers
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Options select the kubeconfig, context and namespace for a connection.
// Empty fields fall back to the kubeconfig defaults.
type Options struct {
	Kubeconfig string
	Context    string
	Namespace  string
}

// Client bundles the cluster connections for one kubeconfig context. A
// context switch builds a fresh Client; existing watchers keep their old
// one until rebound.
type Client struct {
	RestConfig *rest.Config
	Clientset  kubernetes.Interface
	Dynamic    dynamic.Interface
	Context    string
	Namespace  string

	kubeconfig string
}

// NewClient resolves the kubeconfig and connects.
func NewClient(opts Options) (*Client, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if opts.Kubeconfig != "" {
		loadingRules.ExplicitPath = opts.Kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{}
	if opts.Context != "" {
		overrides.CurrentContext = opts.Context
	}
	cc := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	restConfig, err := cc.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}

	raw, err := cc.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("reading kubeconfig contexts: %w", err)
	}
	contextName := raw.CurrentContext
	if opts.Context != "" {
		contextName = opts.Context
	}

	namespace := opts.Namespace
	if namespace == "" {
		if ns, _, err := cc.Namespace(); err == nil && ns != "" {
			namespace = ns
		} else {
			namespace = "default"
		}
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("creating clientset: %w", err)
	}
	dyn, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("creating dynamic client: %w", err)
	}

	return &Client{
		RestConfig: restConfig,
		Clientset:  clientset,
		Dynamic:    dyn,
		Context:    contextName,
		Namespace:  namespace,
		kubeconfig: opts.Kubeconfig,
	}, nil
}

// SwitchContext builds a fresh client for another context of the same
// kubeconfig. The receiver stays usable until dropped.
func (c *Client) SwitchContext(name string) (*Client, error) {
	return NewClient(Options{Kubeconfig: c.kubeconfig, Context: name})
}

// Contexts lists the context names in the kubeconfig, sorted, plus the
// current one.
func Contexts(kubeconfig string) ([]string, string, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		loadingRules.ExplicitPath = kubeconfig
	}
	cc := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{})
	raw, err := cc.RawConfig()
	if err != nil {
		return nil, "", fmt.Errorf("reading kubeconfig: %w", err)
	}
	names := make([]string, 0, len(raw.Contexts))
	for name := range raw.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, raw.CurrentContext, nil
}

// KubeconfigPath is the file whose changes should refresh the context
// list: the explicit path if given, else $KUBECONFIG, else the default.
func KubeconfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(clientcmd.RecommendedConfigPathEnvVar); env != "" {
		return env
	}
	return clientcmd.RecommendedHomeFile
}

// Namespaces lists namespace names in the cluster, sorted.
func (c *Client) Namespaces(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	list, err := c.Clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	sort.Strings(names)
	return names, nil
}

// List fetches the current table for one kind without a watch. The MCP
// tools use this; the TUI always goes through RunWatcher.
func (c *Client) List(ctx context.Context, kind ResourceKind, namespace string) (Snapshot, error) {
	list, err := c.resource(kind, namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing %s: %w", kind.ShortName(), err)
	}
	items := make(map[string]*unstructured.Unstructured, len(list.Items))
	for i := range list.Items {
		items[objectKey(&list.Items[i])] = &list.Items[i]
	}
	return snapshot(kind, Headers(kind), items), nil
}

// Delete removes one object.
func (c *Client) Delete(ctx context.Context, kind ResourceKind, namespace, name string) error {
	err := c.resource(kind, namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", kind.ShortName(), name, err)
	}
	return nil
}

// Scale patches spec.replicas on a scalable workload.
func (c *Client) Scale(ctx context.Context, kind ResourceKind, namespace, name string, replicas int) error {
	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	_, err := c.resource(kind, namespace).Patch(ctx, name, types.MergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("scaling %s %s to %d: %w", kind.ShortName(), name, replicas, err)
	}
	return nil
}

// RestartRollout triggers a rolling restart the way kubectl does, by
// stamping the pod template.
func (c *Client) RestartRollout(ctx context.Context, kind ResourceKind, namespace, name string) error {
	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{"kubectl.kubernetes.io/restartedAt":%q}}}}}`,
		time.Now().Format(time.RFC3339))
	_, err := c.resource(kind, namespace).Patch(ctx, name, types.MergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("restarting rollout of %s %s: %w", kind.ShortName(), name, err)
	}
	return nil
}

func (c *Client) resource(kind ResourceKind, namespace string) dynamic.ResourceInterface {
	gvr := kind.GroupVersionResource()
	if kind.Namespaced() && namespace != "" {
		return c.Dynamic.Resource(gvr).Namespace(namespace)
	}
	return c.Dynamic.Resource(gvr)
}
