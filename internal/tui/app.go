package tui

import tea "github.com/charmbracelet/bubbletea"

// NavMsg is delivered to a page when it becomes active through navigation.
type NavMsg struct {
	From   string
	Params interface{}
}

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	var firstID string
	for i, p := range pages {
		pageMap[p.ID()] = p
		if i == 0 {
			firstID = p.ID()
		}
	}
	return &App{
		pages:      pageMap,
		activePage: firstID,
	}
}

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Window size reaches every page through View, only track it here.
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)
	if nav == nil {
		return a, cmd
	}

	target, exists := a.pages[nav.PageID]
	if !exists {
		return a, cmd
	}

	from := a.activePage
	a.activePage = nav.PageID

	// Let the target page react to becoming active before its init
	// commands run. Refresh-on-entry relies on this ordering.
	navCmd, _ := target.Update(NavMsg{From: from, Params: nav.Params})
	return a, tea.Batch(cmd, navCmd, target.Init())
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return ""
}
