package panes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
)

func podRows() ([]string, [][]string) {
	headers := kube.Headers(kube.KindPods)
	rows := [][]string{
		{"api-0", "default", "Running", "1/1", "0", "5m", "node-a"},
		{"api-1", "default", "Running", "1/1", "0", "5m", "node-b"},
		{"worker-0", "jobs", "Pending", "0/1", "0", "10s", "node-a"},
	}
	return headers, rows
}

func TestResourceListStartsLoading(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	assert.True(t, p.loading)
	_, ok := p.Selected()
	assert.False(t, ok)

	view := p.View(60, 10, true)
	assert.Contains(t, view, "Loading...")
}

func TestResourceListSetItemsSelectsFirst(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())

	assert.False(t, p.loading)
	row, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "api-0", row[0])
}

func TestResourceListSelectionWraps(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())

	p.Handle(model.SelectPrev)
	row, _ := p.Selected()
	assert.Equal(t, "worker-0", row[0], "prev from first wraps to last")

	p.Handle(model.SelectNext)
	row, _ = p.Selected()
	assert.Equal(t, "api-0", row[0], "next from last wraps to first")
}

func TestResourceListFilterResetsSelection(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())
	p.Handle(model.SelectNext)
	p.Handle(model.SelectNext)

	p.SetFilter("worker")
	row, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "worker-0", row[0])

	p.SetFilter("nothing-matches")
	_, ok = p.Selected()
	assert.False(t, ok)

	p.ClearFilter()
	_, ok = p.Selected()
	assert.True(t, ok)
}

func TestResourceListFilterMatchesAnyCell(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())

	p.SetFilter("node-b")
	row, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "api-1", row[0])
}

func TestResourceListSelectionSurvivesSnapshot(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	headers, rows := podRows()
	p.SetItems(headers, rows)
	p.Handle(model.SelectNext) // api-1

	// New snapshot with a row inserted above the selection.
	p.SetItems(headers, [][]string{
		{"aaa-new", "default", "Running", "1/1", "0", "1s", "node-c"},
		rows[0], rows[1], rows[2],
	})
	row, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "api-1", row[0])

	// Selected object disappears; selection clamps instead of vanishing.
	p.SetItems(headers, [][]string{rows[0]})
	row, ok = p.Selected()
	require.True(t, ok)
	assert.Equal(t, "api-0", row[0])
}

func TestResourceListIdentityUsesNamespace(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	headers := kube.Headers(kube.KindPods)
	rows := [][]string{
		{"db-0", "staging", "Running", "1/1", "0", "5m", "node-a"},
		{"db-0", "prod", "Running", "1/1", "0", "5m", "node-b"},
	}
	p.SetItems(headers, rows)
	p.Handle(model.SelectNext) // db-0 in prod

	p.SetItems(headers, [][]string{rows[1], rows[0]})
	row, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "prod", row[1])
}

func TestResourceListSortCycles(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())

	assert.Equal(t, -1, p.sortCol)
	p.Handle(model.SortColumn)
	assert.Equal(t, 0, p.sortCol)
	assert.True(t, p.sortAsc)

	for i := 1; i < len(p.headers); i++ {
		p.Handle(model.SortColumn)
		assert.Equal(t, i, p.sortCol)
	}
	p.Handle(model.SortColumn)
	assert.Equal(t, 0, p.sortCol, "cycles back to the first column")
}

func TestResourceListSortOrders(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())

	p.Handle(model.SortColumn) // NAME ascending
	p.Handle(model.GoToTop)
	row, _ := p.Selected()
	assert.Equal(t, "api-0", row[0])

	p.Handle(model.ToggleSortOrder)
	p.Handle(model.GoToTop)
	row, _ = p.Selected()
	assert.Equal(t, "worker-0", row[0])
}

func TestResourceListToggleSortOrderNoopWithoutColumn(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())

	p.Handle(model.ToggleSortOrder)
	assert.Equal(t, -1, p.sortCol)
	assert.False(t, p.sortAsc)
}

func TestResourceListErrorKeepsRows(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())
	p.SetSnapshot(kube.Snapshot{Err: errors.New("watch closed")})

	assert.Equal(t, "watch closed", p.errMsg)
	assert.Len(t, p.rows, 3)

	view := p.View(80, 12, true)
	assert.Contains(t, view, "Error: watch closed")
	assert.Contains(t, view, "api-0")
}

func TestResourceListSetKindResets(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())
	p.SetFilter("api")

	p.SetKind(kube.KindDeployments)
	assert.Equal(t, kube.KindDeployments, p.Kind())
	assert.True(t, p.loading)
	assert.Empty(t, p.FilterText())
	assert.Equal(t, kube.Headers(kube.KindDeployments), p.headers)
	_, ok := p.Selected()
	assert.False(t, ok)
}

func TestResourceListViewTexture(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(podRows())

	view := p.View(100, 14, true)
	assert.Contains(t, view, " Pods ")
	assert.Contains(t, view, " 3 ")
	assert.Contains(t, view, "NAME")
	assert.Contains(t, view, "▶ api-0")

	p.ToggleAllNamespaces()
	p.SetItems(podRows())
	view = p.View(100, 14, true)
	assert.Contains(t, view, " Pods (All Namespaces) ")

	p.SetFilter("api")
	view = p.View(100, 14, true)
	assert.Contains(t, view, " 2/3 ")
	assert.Contains(t, view, "Filter: api_")
}

func TestResourceListEmptyStates(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	p.SetItems(kube.Headers(kube.KindPods), nil)
	assert.Contains(t, p.View(60, 10, false), "No resources found")

	p.SetItems(podRows())
	p.SetFilter("zzz")
	assert.Contains(t, p.View(60, 10, false), "No matches")
}

func TestResourceListScrollFollowsSelection(t *testing.T) {
	p := NewResourceList(kube.KindPods)
	headers := kube.Headers(kube.KindPods)
	var rows [][]string
	for i := 0; i < 30; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("pod-%02d", i),
			"default", "Running", "1/1", "0", "1m", "node-a",
		})
	}
	p.SetItems(headers, rows)

	// Body height 8 leaves room for the header plus 7 rows.
	p.View(60, 10, true)
	p.Handle(model.GoToBottom)
	view := p.View(60, 10, true)
	assert.Contains(t, view, "pod-29")
	assert.NotContains(t, view, "pod-00")

	p.Handle(model.GoToTop)
	view = p.View(60, 10, true)
	assert.Contains(t, view, "pod-00")
	assert.NotContains(t, view, "pod-29")
}
