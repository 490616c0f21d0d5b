package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/view"
)

// AppModel adapts the shared model to the tea.Model interface. All
// state lives in the wrapped model; Update mutates it in place.
type AppModel struct {
	model *model.Model
}

// NewAppModel creates the app wrapper around an initialized model.
func NewAppModel(m *model.Model) AppModel {
	return AppModel{model: m}
}

// Init arms the event channel reader, the refresh tick and the initial
// cluster listings.
func (a AppModel) Init() tea.Cmd {
	return tea.Batch(
		a.model.WaitForEvent(),
		tickCmd(tickRate(a.model)),
		a.model.Spinner.Tick,
		loadNamespacesCmd(a.model.Client),
		loadContextsCmd(a.model.Kubeconfig),
	)
}

// Update implements tea.Model.
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, Update(a.model, msg)
}

// View implements tea.Model.
func (a AppModel) View() string {
	return view.Render(a.model)
}
