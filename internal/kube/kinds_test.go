package kube

import (
	"testing"
)

func TestKindFromShortName(t *testing.T) {
	tests := []struct {
		name   string
		short  string
		want   ResourceKind
		wantOk bool
	}{
		{name: "pods", short: "po", want: KindPods, wantOk: true},
		{name: "deployments", short: "deploy", want: KindDeployments, wantOk: true},
		{name: "services", short: "svc", want: KindServices, wantOk: true},
		{name: "statefulsets", short: "sts", want: KindStatefulSets, wantOk: true},
		{name: "daemonsets", short: "ds", want: KindDaemonSets, wantOk: true},
		{name: "jobs", short: "job", want: KindJobs, wantOk: true},
		{name: "cronjobs", short: "cj", want: KindCronJobs, wantOk: true},
		{name: "configmaps", short: "cm", want: KindConfigMaps, wantOk: true},
		{name: "secrets", short: "secret", want: KindSecrets, wantOk: true},
		{name: "ingresses", short: "ing", want: KindIngresses, wantOk: true},
		{name: "nodes", short: "no", want: KindNodes, wantOk: true},
		{name: "namespaces", short: "ns", want: KindNamespaces, wantOk: true},
		{name: "persistent volumes", short: "pv", want: KindPersistentVolumes, wantOk: true},
		{name: "persistent volume claims", short: "pvc", want: KindPersistentVolumeClaims, wantOk: true},
		{name: "uppercase accepted", short: "PO", want: KindPods, wantOk: true},
		{name: "unknown", short: "zzz", wantOk: false},
		{name: "empty", short: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindFromShortName(tt.short)
			if ok != tt.wantOk {
				t.Fatalf("KindFromShortName(%q) ok = %v, want %v", tt.short, ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("KindFromShortName(%q) = %v, want %v", tt.short, got, tt.want)
			}
		})
	}
}

func TestAllKindsCount(t *testing.T) {
	if got := len(AllKinds()); got != 14 {
		t.Errorf("AllKinds() has %d entries, want 14", got)
	}
}

func TestShortNamesAreUnique(t *testing.T) {
	seen := make(map[string]ResourceKind)
	for _, kind := range AllKinds() {
		short := kind.ShortName()
		if other, dup := seen[short]; dup {
			t.Errorf("short name %q used by both %s and %s", short, kind, other)
		}
		seen[short] = kind
	}
}

func TestKindFromNameMatchesDisplayAndShort(t *testing.T) {
	for _, kind := range AllKinds() {
		if got, ok := KindFromName(kind.ShortName()); !ok || got != kind {
			t.Errorf("KindFromName(%q) = %v, %v; want %v", kind.ShortName(), got, ok, kind)
		}
		if got, ok := KindFromName(string(kind)); !ok || got != kind {
			t.Errorf("KindFromName(%q) = %v, %v; want %v", string(kind), got, ok, kind)
		}
	}
	if _, ok := KindFromName("not-a-kind"); ok {
		t.Error("KindFromName accepted an unknown name")
	}
}

func TestNamespaced(t *testing.T) {
	clusterScoped := map[ResourceKind]bool{
		KindNodes:             true,
		KindNamespaces:        true,
		KindPersistentVolumes: true,
	}
	for _, kind := range AllKinds() {
		want := !clusterScoped[kind]
		if got := kind.Namespaced(); got != want {
			t.Errorf("%s.Namespaced() = %v, want %v", kind, got, want)
		}
	}
}

func TestGroupVersionResource(t *testing.T) {
	tests := []struct {
		kind         ResourceKind
		wantGroup    string
		wantResource string
	}{
		{kind: KindPods, wantGroup: "", wantResource: "pods"},
		{kind: KindDeployments, wantGroup: "apps", wantResource: "deployments"},
		{kind: KindStatefulSets, wantGroup: "apps", wantResource: "statefulsets"},
		{kind: KindJobs, wantGroup: "batch", wantResource: "jobs"},
		{kind: KindCronJobs, wantGroup: "batch", wantResource: "cronjobs"},
		{kind: KindIngresses, wantGroup: "networking.k8s.io", wantResource: "ingresses"},
		{kind: KindPersistentVolumeClaims, wantGroup: "", wantResource: "persistentvolumeclaims"},
	}
	for _, tt := range tests {
		gvr := tt.kind.GroupVersionResource()
		if gvr.Group != tt.wantGroup || gvr.Resource != tt.wantResource {
			t.Errorf("%s GVR = %v, want group %q resource %q", tt.kind, gvr, tt.wantGroup, tt.wantResource)
		}
		if gvr.Version != "v1" {
			t.Errorf("%s GVR version = %q, want v1", tt.kind, gvr.Version)
		}
	}

	custom := ResourceKind("Widgets")
	gvr := custom.GroupVersionResource()
	if gvr.Resource != "widgets" || gvr.Version != "v1" {
		t.Errorf("custom kind GVR = %v, want v1/widgets", gvr)
	}
}
