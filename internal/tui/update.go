package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slabwatch/slabwatch/internal/apiclient"
	"github.com/slabwatch/slabwatch/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// savedLoadedMsg carries a full reload of the saved-search list.
type savedLoadedMsg struct {
	items []model.SavedResult
	err   error
}

// actionDoneMsg reports one completed mutation. The list reloads in full
// after every successful mutation rather than patching state in place.
type actionDoneMsg struct {
	action string
	card   string
	err    error
}

func (p *BrowsePage) Init() tea.Cmd {
	p.loading = true
	return p.loadSavedCmd()
}

func (p *BrowsePage) loadSavedCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := p.api.Saved(ctx)
		return savedLoadedMsg{items: items, err: err}
	}
}

func (p *BrowsePage) searchCmd(cardName, region string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := p.api.Search(ctx, cardName, region)
		return actionDoneMsg{action: "search", card: cardName, err: err}
	}
}

func (p *BrowsePage) refreshCmd(cardName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := p.api.Refresh(ctx, cardName)
		return actionDoneMsg{action: "refresh", card: cardName, err: err}
	}
}

func (p *BrowsePage) confirmCmd(cardName, imageURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := p.api.ConfirmImage(ctx, cardName, imageURL)
		return actionDoneMsg{action: "confirm image", card: cardName, err: err}
	}
}

func (p *BrowsePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case NavMsg:
		// Entering from login: drop any state left from a previous session.
		p.items = nil
		p.selected = 0
		p.statusState = statusState{}
		if reason, ok := msg.Params.(string); ok && reason != "" {
			p.set(reason)
		}
		return nil, nil

	case savedLoadedMsg:
		return p.handleSavedLoaded(msg)

	case actionDoneMsg:
		return p.handleActionDone(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.searchFormState.active {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd, nil
	}
	return nil, nil
}

func (p *BrowsePage) handleSavedLoaded(msg savedLoadedMsg) (tea.Cmd, *PageNav) {
	p.loading = false

	if msg.err != nil {
		if apiclient.IsUnauthorized(msg.err) {
			return nil, &PageNav{PageID: "login", Params: "session expired, log in again"}
		}
		p.setError("load failed: " + apiErrorText(msg.err))
		return nil, nil
	}

	p.items = msg.items
	if p.selected >= len(p.items) {
		p.selected = len(p.items) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
	return nil, nil
}

func (p *BrowsePage) handleActionDone(msg actionDoneMsg) (tea.Cmd, *PageNav) {
	p.loading = false

	if msg.err != nil {
		if apiclient.IsUnauthorized(msg.err) {
			return nil, &PageNav{PageID: "login", Params: "session expired, log in again"}
		}
		p.setError(fmt.Sprintf("%s %q failed: %s", msg.action, msg.card, apiErrorText(msg.err)))
		return nil, nil
	}

	p.set(fmt.Sprintf("%s %q done", msg.action, msg.card))
	p.loading = true
	return p.loadSavedCmd(), nil
}

func (p *BrowsePage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	if key.Matches(msg, p.keys.ForceQuit) {
		return tea.Quit, nil
	}

	if p.searchFormState.active {
		return p.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, p.keys.Quit):
		return tea.Quit, nil

	case key.Matches(msg, p.keys.Up):
		if p.selected > 0 {
			p.selected--
		}

	case key.Matches(msg, p.keys.Down):
		if p.selected < len(p.items)-1 {
			p.selected++
		}

	case key.Matches(msg, p.keys.Search):
		p.searchFormState.active = true
		p.input.Focus()
		return textinput.Blink, nil

	case key.Matches(msg, p.keys.Refresh):
		if card := p.selectedCard(); card != nil {
			p.loading = true
			return p.refreshCmd(card.CardName), nil
		}

	case key.Matches(msg, p.keys.Confirm):
		card := p.selectedCard()
		if card == nil {
			break
		}
		if card.LastImage == "" {
			p.setError(fmt.Sprintf("%q has no image to confirm", card.CardName))
			break
		}
		p.loading = true
		return p.confirmCmd(card.CardName, card.LastImage), nil

	case key.Matches(msg, p.keys.Reload):
		p.loading = true
		return p.loadSavedCmd(), nil

	case key.Matches(msg, p.keys.Logout):
		if err := p.session.Clear(); err != nil {
			p.setError("logout failed: " + err.Error())
			break
		}
		return nil, &PageNav{PageID: "login", Params: "logged out"}
	}

	return nil, nil
}

func (p *BrowsePage) handleSearchKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch {
	case key.Matches(msg, p.keys.Escape):
		p.searchFormState.active = false
		p.input.Blur()
		return nil, nil

	case key.Matches(msg, p.keys.Region):
		p.cycleRegion()
		return nil, nil

	case key.Matches(msg, p.keys.Enter):
		name := strings.TrimSpace(p.input.Value())
		if name == "" {
			p.setError("enter a card name first")
			return nil, nil
		}
		p.searchFormState.active = false
		p.input.Blur()
		p.input.SetValue("")
		p.loading = true
		return p.searchCmd(name, p.region()), nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd, nil
}

// apiErrorText strips the client prefix so status lines stay short.
func apiErrorText(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
