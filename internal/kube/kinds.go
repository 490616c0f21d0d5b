package kube

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// ResourceKind names one watchable resource type. The built-in kinds carry
// their display name as value; any other value is treated as a custom kind
// addressed by its lowercase resource name.
type ResourceKind string

const (
	KindPods                   ResourceKind = "Pods"
	KindDeployments            ResourceKind = "Deployments"
	KindServices               ResourceKind = "Services"
	KindStatefulSets           ResourceKind = "StatefulSets"
	KindDaemonSets             ResourceKind = "DaemonSets"
	KindJobs                   ResourceKind = "Jobs"
	KindCronJobs               ResourceKind = "CronJobs"
	KindConfigMaps             ResourceKind = "ConfigMaps"
	KindSecrets                ResourceKind = "Secrets"
	KindIngresses              ResourceKind = "Ingresses"
	KindNodes                  ResourceKind = "Nodes"
	KindNamespaces             ResourceKind = "Namespaces"
	KindPersistentVolumes      ResourceKind = "PersistentVolumes"
	KindPersistentVolumeClaims ResourceKind = "PersistentVolumeClaims"
)

// shortNames maps each built-in kind to its kubectl-style abbreviation.
var shortNames = map[ResourceKind]string{
	KindPods:                   "po",
	KindDeployments:            "deploy",
	KindServices:               "svc",
	KindStatefulSets:           "sts",
	KindDaemonSets:             "ds",
	KindJobs:                   "job",
	KindCronJobs:               "cj",
	KindConfigMaps:             "cm",
	KindSecrets:                "secret",
	KindIngresses:              "ing",
	KindNodes:                  "no",
	KindNamespaces:             "ns",
	KindPersistentVolumes:      "pv",
	KindPersistentVolumeClaims: "pvc",
}

var kindResources = map[ResourceKind]schema.GroupVersionResource{
	KindPods:                   {Version: "v1", Resource: "pods"},
	KindDeployments:            {Group: "apps", Version: "v1", Resource: "deployments"},
	KindServices:               {Version: "v1", Resource: "services"},
	KindStatefulSets:           {Group: "apps", Version: "v1", Resource: "statefulsets"},
	KindDaemonSets:             {Group: "apps", Version: "v1", Resource: "daemonsets"},
	KindJobs:                   {Group: "batch", Version: "v1", Resource: "jobs"},
	KindCronJobs:               {Group: "batch", Version: "v1", Resource: "cronjobs"},
	KindConfigMaps:             {Version: "v1", Resource: "configmaps"},
	KindSecrets:                {Version: "v1", Resource: "secrets"},
	KindIngresses:              {Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"},
	KindNodes:                  {Version: "v1", Resource: "nodes"},
	KindNamespaces:             {Version: "v1", Resource: "namespaces"},
	KindPersistentVolumes:      {Version: "v1", Resource: "persistentvolumes"},
	KindPersistentVolumeClaims: {Version: "v1", Resource: "persistentvolumeclaims"},
}

// AllKinds lists the built-in kinds in switcher display order.
func AllKinds() []ResourceKind {
	return []ResourceKind{
		KindPods,
		KindDeployments,
		KindServices,
		KindStatefulSets,
		KindDaemonSets,
		KindJobs,
		KindCronJobs,
		KindConfigMaps,
		KindSecrets,
		KindIngresses,
		KindNodes,
		KindNamespaces,
		KindPersistentVolumes,
		KindPersistentVolumeClaims,
	}
}

// ShortName returns the kubectl-style abbreviation, or the kind itself for
// custom kinds.
func (k ResourceKind) ShortName() string {
	if s, ok := shortNames[k]; ok {
		return s
	}
	return string(k)
}

// DisplayName is the human-readable kind name.
func (k ResourceKind) DisplayName() string {
	return string(k)
}

// KindFromShortName resolves a kubectl-style abbreviation,
// case-insensitively. Returns false for unknown names.
func KindFromShortName(s string) (ResourceKind, bool) {
	s = strings.ToLower(s)
	for _, k := range AllKinds() {
		if shortNames[k] == s {
			return k, true
		}
	}
	return "", false
}

// KindFromName resolves a display name or abbreviation.
func KindFromName(s string) (ResourceKind, bool) {
	if k, ok := KindFromShortName(s); ok {
		return k, true
	}
	lower := strings.ToLower(s)
	for _, k := range AllKinds() {
		if strings.ToLower(string(k)) == lower {
			return k, true
		}
	}
	return "", false
}

// Namespaced reports whether objects of this kind live inside a namespace.
func (k ResourceKind) Namespaced() bool {
	switch k {
	case KindNodes, KindNamespaces, KindPersistentVolumes:
		return false
	}
	return true
}

// GroupVersionResource maps the kind onto the API surface for the dynamic
// client. Custom kinds are assumed to be cluster v1 resources named by
// their lowercase value.
func (k ResourceKind) GroupVersionResource() schema.GroupVersionResource {
	if gvr, ok := kindResources[k]; ok {
		return gvr
	}
	return schema.GroupVersionResource{Version: "v1", Resource: strings.ToLower(string(k))}
}
