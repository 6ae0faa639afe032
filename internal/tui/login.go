package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginDoneMsg carries the token from a completed login attempt.
type loginDoneMsg struct {
	token string
	err   error
}

// registerDoneMsg reports a completed account creation.
type registerDoneMsg struct {
	username string
	err      error
}

// LoginPage collects credentials and starts a session. Switching between
// log-in and register is a mode toggle on the same two fields.
type LoginPage struct {
	api     API
	session SessionStore
	styles  Styles

	username textinput.Model
	password textinput.Model
	focusIdx int

	registering bool
	busy        bool
	message     string
	isError     bool
}

// NewLoginPage creates the login page.
func NewLoginPage(api API, session SessionStore, skin Skin) *LoginPage {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return &LoginPage{
		api:      api,
		session:  session,
		styles:   NewStyles(skin),
		username: username,
		password: password,
	}
}

func (p *LoginPage) ID() string { return "login" }

func (p *LoginPage) Init() tea.Cmd {
	return textinput.Blink
}

func (p *LoginPage) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		token, err := p.api.Login(ctx, username, password)
		return loginDoneMsg{token: token, err: err}
	}
}

func (p *LoginPage) registerCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := p.api.Register(ctx, username, password)
		return registerDoneMsg{username: username, err: err}
	}
}

func (p *LoginPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case NavMsg:
		p.busy = false
		p.password.SetValue("")
		if reason, ok := msg.Params.(string); ok && reason != "" {
			p.message, p.isError = reason, false
		}
		return nil, nil

	case loginDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.message, p.isError = apiErrorText(msg.err), true
			return nil, nil
		}
		if err := p.session.SetToken(msg.token); err != nil {
			p.message, p.isError = "could not save session: "+err.Error(), true
			return nil, nil
		}
		return nil, &PageNav{PageID: "browse"}

	case registerDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.message, p.isError = apiErrorText(msg.err), true
			return nil, nil
		}
		p.registering = false
		p.message, p.isError = "account created, log in to continue", false
		return nil, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p.updateInputs(msg), nil
}

func (p *LoginPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	keys := DefaultKeyMap()

	switch {
	case key.Matches(msg, keys.ForceQuit):
		return tea.Quit, nil

	case msg.String() == "ctrl+r":
		p.registering = !p.registering
		p.message, p.isError = "", false
		return nil, nil

	case msg.Type == tea.KeyTab, msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyDown, msg.Type == tea.KeyUp:
		p.focusIdx = (p.focusIdx + 1) % 2
		if p.focusIdx == 0 {
			p.password.Blur()
			return p.username.Focus(), nil
		}
		p.username.Blur()
		return p.password.Focus(), nil

	case msg.Type == tea.KeyEnter:
		if p.busy {
			return nil, nil
		}
		username := strings.TrimSpace(p.username.Value())
		password := p.password.Value()
		if username == "" || password == "" {
			p.message, p.isError = "username and password are required", true
			return nil, nil
		}
		p.busy = true
		p.message, p.isError = "", false
		if p.registering {
			return p.registerCmd(username, password), nil
		}
		return p.loginCmd(username, password), nil
	}

	return p.updateInputs(msg), nil
}

func (p *LoginPage) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.username, cmd = p.username.Update(msg)
	cmds = append(cmds, cmd)
	p.password, cmd = p.password.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (p *LoginPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Loading..."
	}

	title := "Log in"
	action := "enter log in"
	if p.registering {
		title = "Create account"
		action = "enter create account"
	}

	var status string
	switch {
	case p.busy:
		status = p.styles.Muted.Render("working...")
	case p.message != "" && p.isError:
		status = p.styles.Error.Render(p.message)
	case p.message != "":
		status = p.styles.Success.Render(p.message)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		renderBranding(),
		"",
		p.styles.Title.Render(title),
		p.username.View(),
		p.password.View(),
		"",
		p.styles.FormHint.Render(action+" · tab next field · ctrl+r "+toggleHint(p.registering)+" · ctrl+c quit"),
		status,
	)

	box := p.styles.Card.Render(form)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func toggleHint(registering bool) string {
	if registering {
		return "switch to log in"
	}
	return "switch to register"
}
