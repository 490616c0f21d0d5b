package kube

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// overviewKinds are the kinds an overview reports on, in display order.
var overviewKinds = []ResourceKind{
	KindPods,
	KindDeployments,
	KindStatefulSets,
	KindDaemonSets,
	KindJobs,
	KindServices,
}

// OverviewEntry is one kind's slice of a cluster overview.
type OverviewEntry struct {
	Kind     ResourceKind
	Total    int
	NotReady int
}

// Overview lists the workload kinds concurrently and reduces each table
// to counts. The listings share one context, so the first failure
// cancels the rest and fails the whole overview.
func (c *Client) Overview(ctx context.Context, namespace string) ([]OverviewEntry, error) {
	g, ctx := errgroup.WithContext(ctx)
	entries := make([]OverviewEntry, len(overviewKinds))
	for i, kind := range overviewKinds {
		g.Go(func() error {
			snap, err := c.List(ctx, kind, namespace)
			if err != nil {
				return err
			}
			entries[i] = OverviewEntry{
				Kind:     kind,
				Total:    len(snap.Rows),
				NotReady: countNotReady(kind, snap.Rows),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func countNotReady(kind ResourceKind, rows [][]string) int {
	n := 0
	for _, row := range rows {
		if rowNotReady(kind, row) {
			n++
		}
	}
	return n
}

// rowNotReady applies per-kind readiness to one summary row: pods by
// phase, workloads by their ready fraction. Kinds without a readiness
// notion never count.
func rowNotReady(kind ResourceKind, row []string) bool {
	switch kind {
	case KindPods:
		switch cell(row, 2) {
		case "Running", "Succeeded", "Completed":
			return false
		}
		return true
	case KindDeployments, KindStatefulSets, KindJobs:
		return !fractionFull(cell(row, 2))
	case KindDaemonSets:
		return cell(row, 2) != cell(row, 4)
	}
	return false
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// fractionFull reports whether an "x/y" readiness cell is complete.
func fractionFull(s string) bool {
	ready, total, ok := strings.Cut(s, "/")
	return ok && ready == total
}
