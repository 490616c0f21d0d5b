package kube

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Headers returns the table header row for a kind. Rows produced by
// Summarize align with these headers positionally.
func Headers(kind ResourceKind) []string {
	switch kind {
	case KindPods:
		return []string{"NAME", "NAMESPACE", "STATUS", "READY", "RESTARTS", "AGE", "NODE"}
	case KindDeployments:
		return []string{"NAME", "NAMESPACE", "READY", "UP-TO-DATE", "AVAILABLE", "AGE"}
	case KindServices:
		return []string{"NAME", "NAMESPACE", "TYPE", "CLUSTER-IP", "EXTERNAL-IP", "PORT(S)", "AGE"}
	case KindStatefulSets:
		return []string{"NAME", "NAMESPACE", "READY", "AGE"}
	case KindDaemonSets:
		return []string{"NAME", "NAMESPACE", "DESIRED", "CURRENT", "READY", "AGE"}
	case KindJobs:
		return []string{"NAME", "NAMESPACE", "COMPLETIONS", "DURATION", "AGE"}
	case KindCronJobs:
		return []string{"NAME", "NAMESPACE", "SCHEDULE", "SUSPEND", "ACTIVE", "LAST SCHEDULE", "AGE"}
	case KindConfigMaps:
		return []string{"NAME", "NAMESPACE", "DATA", "AGE"}
	case KindSecrets:
		return []string{"NAME", "NAMESPACE", "TYPE", "DATA", "AGE"}
	case KindIngresses:
		return []string{"NAME", "NAMESPACE", "CLASS", "HOSTS", "ADDRESS", "PORTS", "AGE"}
	case KindNodes:
		return []string{"NAME", "STATUS", "ROLES", "AGE", "VERSION"}
	case KindNamespaces:
		return []string{"NAME", "STATUS", "AGE"}
	case KindPersistentVolumes:
		return []string{"NAME", "CAPACITY", "ACCESS MODES", "RECLAIM POLICY", "STATUS", "CLAIM", "STORAGECLASS", "AGE"}
	case KindPersistentVolumeClaims:
		return []string{"NAME", "NAMESPACE", "STATUS", "VOLUME", "CAPACITY", "ACCESS MODES", "STORAGECLASS", "AGE"}
	default:
		return []string{"NAME", "NAMESPACE", "AGE"}
	}
}

// Summarize converts one object into its table row for the given kind.
func Summarize(kind ResourceKind, obj *unstructured.Unstructured) []string {
	switch kind {
	case KindPods:
		return podRow(obj)
	case KindDeployments:
		return deploymentRow(obj)
	case KindServices:
		return serviceRow(obj)
	case KindStatefulSets:
		ready, total := nestedInt(obj, "status", "readyReplicas"), nestedInt(obj, "status", "replicas")
		return []string{obj.GetName(), obj.GetNamespace(), fmt.Sprintf("%d/%d", ready, total), age(obj)}
	case KindDaemonSets:
		return []string{
			obj.GetName(), obj.GetNamespace(),
			fmt.Sprintf("%d", nestedInt(obj, "status", "desiredNumberScheduled")),
			fmt.Sprintf("%d", nestedInt(obj, "status", "currentNumberScheduled")),
			fmt.Sprintf("%d", nestedInt(obj, "status", "numberReady")),
			age(obj),
		}
	case KindJobs:
		return jobRow(obj)
	case KindCronJobs:
		return cronJobRow(obj)
	case KindConfigMaps:
		data, _, _ := unstructured.NestedMap(obj.Object, "data")
		binary, _, _ := unstructured.NestedMap(obj.Object, "binaryData")
		return []string{obj.GetName(), obj.GetNamespace(), fmt.Sprintf("%d", len(data)+len(binary)), age(obj)}
	case KindSecrets:
		data, _, _ := unstructured.NestedMap(obj.Object, "data")
		return []string{obj.GetName(), obj.GetNamespace(), nestedString(obj, "type"), fmt.Sprintf("%d", len(data)), age(obj)}
	case KindIngresses:
		return ingressRow(obj)
	case KindNodes:
		return nodeRow(obj)
	case KindNamespaces:
		return []string{obj.GetName(), nestedString(obj, "status", "phase"), age(obj)}
	case KindPersistentVolumes:
		return pvRow(obj)
	case KindPersistentVolumeClaims:
		return pvcRow(obj)
	default:
		return []string{obj.GetName(), obj.GetNamespace(), age(obj)}
	}
}

func podRow(obj *unstructured.Unstructured) []string {
	phase := nestedString(obj, "status", "phase")
	if phase == "" {
		phase = "Unknown"
	}
	statuses, _, _ := unstructured.NestedSlice(obj.Object, "status", "containerStatuses")
	ready, restarts := 0, int64(0)
	for _, s := range statuses {
		cs, ok := s.(map[string]interface{})
		if !ok {
			continue
		}
		if r, ok := cs["ready"].(bool); ok && r {
			ready++
		}
		if rc, ok := cs["restartCount"].(int64); ok {
			restarts += rc
		}
	}
	return []string{
		obj.GetName(), obj.GetNamespace(), phase,
		fmt.Sprintf("%d/%d", ready, len(statuses)),
		fmt.Sprintf("%d", restarts),
		age(obj),
		nestedString(obj, "spec", "nodeName"),
	}
}

func deploymentRow(obj *unstructured.Unstructured) []string {
	return []string{
		obj.GetName(), obj.GetNamespace(),
		fmt.Sprintf("%d/%d", nestedInt(obj, "status", "readyReplicas"), nestedInt(obj, "status", "replicas")),
		fmt.Sprintf("%d", nestedInt(obj, "status", "updatedReplicas")),
		fmt.Sprintf("%d", nestedInt(obj, "status", "availableReplicas")),
		age(obj),
	}
}

func serviceRow(obj *unstructured.Unstructured) []string {
	external := "<none>"
	if ingress, _, _ := unstructured.NestedSlice(obj.Object, "status", "loadBalancer", "ingress"); len(ingress) > 0 {
		var addrs []string
		for _, i := range ingress {
			m, ok := i.(map[string]interface{})
			if !ok {
				continue
			}
			if ip, _ := m["ip"].(string); ip != "" {
				addrs = append(addrs, ip)
			} else if host, _ := m["hostname"].(string); host != "" {
				addrs = append(addrs, host)
			}
		}
		if len(addrs) > 0 {
			external = strings.Join(addrs, ",")
		}
	}
	var ports []string
	specPorts, _, _ := unstructured.NestedSlice(obj.Object, "spec", "ports")
	for _, p := range specPorts {
		m, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		port, _ := m["port"].(int64)
		proto, _ := m["protocol"].(string)
		if proto == "" {
			proto = "TCP"
		}
		if nodePort, _ := m["nodePort"].(int64); nodePort > 0 {
			ports = append(ports, fmt.Sprintf("%d:%d/%s", port, nodePort, proto))
		} else {
			ports = append(ports, fmt.Sprintf("%d/%s", port, proto))
		}
	}
	portCol := "<none>"
	if len(ports) > 0 {
		portCol = strings.Join(ports, ",")
	}
	return []string{
		obj.GetName(), obj.GetNamespace(),
		nestedString(obj, "spec", "type"),
		nestedString(obj, "spec", "clusterIP"),
		external, portCol, age(obj),
	}
}

func jobRow(obj *unstructured.Unstructured) []string {
	completions := nestedInt(obj, "spec", "completions")
	if completions == 0 {
		completions = 1
	}
	duration := ""
	if start, ok := nestedTime(obj, "status", "startTime"); ok {
		end := time.Now()
		if done, ok := nestedTime(obj, "status", "completionTime"); ok {
			end = done
		}
		duration = FormatAge(end.Sub(start))
	}
	return []string{
		obj.GetName(), obj.GetNamespace(),
		fmt.Sprintf("%d/%d", nestedInt(obj, "status", "succeeded"), completions),
		duration, age(obj),
	}
}

func cronJobRow(obj *unstructured.Unstructured) []string {
	suspend := "False"
	if s, _, _ := unstructured.NestedBool(obj.Object, "spec", "suspend"); s {
		suspend = "True"
	}
	active, _, _ := unstructured.NestedSlice(obj.Object, "status", "active")
	last := "<none>"
	if t, ok := nestedTime(obj, "status", "lastScheduleTime"); ok {
		last = FormatAge(time.Since(t))
	}
	return []string{
		obj.GetName(), obj.GetNamespace(),
		nestedString(obj, "spec", "schedule"),
		suspend,
		fmt.Sprintf("%d", len(active)),
		last, age(obj),
	}
}

func ingressRow(obj *unstructured.Unstructured) []string {
	class := nestedString(obj, "spec", "ingressClassName")
	if class == "" {
		class = "<none>"
	}
	var hosts []string
	rules, _, _ := unstructured.NestedSlice(obj.Object, "spec", "rules")
	for _, r := range rules {
		if m, ok := r.(map[string]interface{}); ok {
			if h, _ := m["host"].(string); h != "" {
				hosts = append(hosts, h)
			}
		}
	}
	hostCol := "*"
	if len(hosts) > 0 {
		hostCol = strings.Join(hosts, ",")
	}
	address := ""
	if ingress, _, _ := unstructured.NestedSlice(obj.Object, "status", "loadBalancer", "ingress"); len(ingress) > 0 {
		if m, ok := ingress[0].(map[string]interface{}); ok {
			if ip, _ := m["ip"].(string); ip != "" {
				address = ip
			} else if host, _ := m["hostname"].(string); host != "" {
				address = host
			}
		}
	}
	ports := "80"
	if tls, _, _ := unstructured.NestedSlice(obj.Object, "spec", "tls"); len(tls) > 0 {
		ports = "80, 443"
	}
	return []string{obj.GetName(), obj.GetNamespace(), class, hostCol, address, ports, age(obj)}
}

func nodeRow(obj *unstructured.Unstructured) []string {
	status := "Unknown"
	conditions, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	for _, c := range conditions {
		m, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		if m["type"] == "Ready" {
			if m["status"] == "True" {
				status = "Ready"
			} else {
				status = "NotReady"
			}
		}
	}
	var roles []string
	for label := range obj.GetLabels() {
		if role, ok := strings.CutPrefix(label, "node-role.kubernetes.io/"); ok && role != "" {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	roleCol := "<none>"
	if len(roles) > 0 {
		roleCol = strings.Join(roles, ",")
	}
	return []string{
		obj.GetName(), status, roleCol, age(obj),
		nestedString(obj, "status", "nodeInfo", "kubeletVersion"),
	}
}

func pvRow(obj *unstructured.Unstructured) []string {
	claim := ""
	if ns := nestedString(obj, "spec", "claimRef", "namespace"); ns != "" {
		claim = ns + "/" + nestedString(obj, "spec", "claimRef", "name")
	}
	return []string{
		obj.GetName(),
		nestedString(obj, "spec", "capacity", "storage"),
		accessModes(obj, "spec", "accessModes"),
		nestedString(obj, "spec", "persistentVolumeReclaimPolicy"),
		nestedString(obj, "status", "phase"),
		claim,
		nestedString(obj, "spec", "storageClassName"),
		age(obj),
	}
}

func pvcRow(obj *unstructured.Unstructured) []string {
	return []string{
		obj.GetName(), obj.GetNamespace(),
		nestedString(obj, "status", "phase"),
		nestedString(obj, "spec", "volumeName"),
		nestedString(obj, "status", "capacity", "storage"),
		accessModes(obj, "spec", "accessModes"),
		nestedString(obj, "spec", "storageClassName"),
		age(obj),
	}
}

var accessModeAbbrev = map[string]string{
	"ReadWriteOnce":    "RWO",
	"ReadOnlyMany":     "ROX",
	"ReadWriteMany":    "RWX",
	"ReadWriteOncePod": "RWOP",
}

func accessModes(obj *unstructured.Unstructured, fields ...string) string {
	modes, _, _ := unstructured.NestedStringSlice(obj.Object, fields...)
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		if short, ok := accessModeAbbrev[m]; ok {
			m = short
		}
		out = append(out, m)
	}
	return strings.Join(out, ",")
}

func nestedString(obj *unstructured.Unstructured, fields ...string) string {
	s, _, _ := unstructured.NestedString(obj.Object, fields...)
	return s
}

func nestedInt(obj *unstructured.Unstructured, fields ...string) int64 {
	n, _, _ := unstructured.NestedInt64(obj.Object, fields...)
	return n
}

func nestedTime(obj *unstructured.Unstructured, fields ...string) (time.Time, bool) {
	s, found, _ := unstructured.NestedString(obj.Object, fields...)
	if !found || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func age(obj *unstructured.Unstructured) string {
	created := obj.GetCreationTimestamp()
	if created.IsZero() {
		return ""
	}
	return FormatAge(time.Since(created.Time))
}

// FormatAge renders an age the way resource tables do: seconds under a
// minute, then whole minutes, hours, days.
func FormatAge(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh", secs/3600)
	default:
		return fmt.Sprintf("%dd", secs/86400)
	}
}
