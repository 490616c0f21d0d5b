package kube

import (
	"context"
	"fmt"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// GetYAML fetches one object and renders it as YAML with managedFields
// stripped.
func (c *Client) GetYAML(ctx context.Context, kind ResourceKind, namespace, name string) (string, error) {
	obj, err := c.resource(kind, namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("getting %s %s: %w", kind.ShortName(), name, err)
	}
	unstructured.RemoveNestedField(obj.Object, "metadata", "managedFields")
	data, err := yaml.Marshal(obj.Object)
	if err != nil {
		return "", fmt.Errorf("rendering %s %s: %w", kind.ShortName(), name, err)
	}
	return string(data), nil
}

// Describe renders a plain-text object summary: identity, labels,
// annotations, the kind's own table columns, and recent events.
func (c *Client) Describe(ctx context.Context, kind ResourceKind, namespace, name string) (string, error) {
	obj, err := c.resource(kind, namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("getting %s %s: %w", kind.ShortName(), name, err)
	}

	var b strings.Builder
	writeField := func(k, v string) { fmt.Fprintf(&b, "%-14s %s\n", k+":", v) }

	writeField("Name", obj.GetName())
	if obj.GetNamespace() != "" {
		writeField("Namespace", obj.GetNamespace())
	}
	writeField("Kind", obj.GetKind())
	if created := obj.GetCreationTimestamp(); !created.IsZero() {
		writeField("Created", created.Format("2006-01-02 15:04:05 MST"))
	}
	writeSortedMap(&b, "Labels", obj.GetLabels())
	writeSortedMap(&b, "Annotations", obj.GetAnnotations())

	b.WriteString("\n")
	headers := Headers(kind)
	row := Summarize(kind, obj)
	for i, h := range headers {
		if i < len(row) && row[i] != "" {
			fmt.Fprintf(&b, "%-14s %s\n", headerLabel(h)+":", row[i])
		}
	}

	if events := c.objectEvents(ctx, namespace, name); events != "" {
		b.WriteString("\nEvents:\n")
		b.WriteString(events)
	}
	return b.String(), nil
}

func headerLabel(h string) string {
	h = strings.ToLower(h)
	if h == "" {
		return h
	}
	return strings.ToUpper(h[:1]) + h[1:]
}

func writeSortedMap(b *strings.Builder, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "%-14s", title+":")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", 14))
		}
		fmt.Fprintf(b, " %s=%s\n", k, m[k])
	}
}

func (c *Client) objectEvents(ctx context.Context, namespace, name string) string {
	list, err := c.Clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{
		FieldSelector: "involvedObject.name=" + name,
		Limit:         20,
	})
	if err != nil || len(list.Items) == 0 {
		return ""
	}
	var b strings.Builder
	for _, ev := range list.Items {
		age := ""
		if !ev.LastTimestamp.IsZero() {
			age = FormatAge(metav1.Now().Sub(ev.LastTimestamp.Time))
		}
		fmt.Fprintf(&b, "  %-8s %-20s %-6s %s\n", ev.Type, ev.Reason, age, ev.Message)
	}
	return b.String()
}
