package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/slabwatch/slabwatch/internal/apiclient"
	"github.com/slabwatch/slabwatch/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeAPI struct {
	saved     []model.SavedResult
	savedErr  error
	searches  []string
	refreshes []string
	confirms  []string
	actionErr error
}

func (f *fakeAPI) Register(_ context.Context, _, _ string) error { return f.actionErr }

func (f *fakeAPI) Login(_ context.Context, _, _ string) (string, error) {
	if f.actionErr != nil {
		return "", f.actionErr
	}
	return "tok", nil
}

func (f *fakeAPI) Saved(_ context.Context) ([]model.SavedResult, error) {
	return f.saved, f.savedErr
}

func (f *fakeAPI) Search(_ context.Context, cardName, region string) (*apiclient.SearchResult, error) {
	f.searches = append(f.searches, cardName+"/"+region)
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return &apiclient.SearchResult{OK: true}, nil
}

func (f *fakeAPI) Refresh(_ context.Context, cardName string) (*apiclient.SearchResult, error) {
	f.refreshes = append(f.refreshes, cardName)
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return &apiclient.SearchResult{OK: true}, nil
}

func (f *fakeAPI) ConfirmImage(_ context.Context, cardName, imageURL string) error {
	f.confirms = append(f.confirms, cardName+"/"+imageURL)
	return f.actionErr
}

type fakeSession struct {
	token   string
	cleared bool
}

func (f *fakeSession) Token() (string, error) { return f.token, nil }
func (f *fakeSession) SetToken(t string) error {
	f.token = t
	return nil
}
func (f *fakeSession) Clear() error {
	f.token = ""
	f.cleared = true
	return nil
}

func twoCards() []model.SavedResult {
	return []model.SavedResult{
		{CardName: "Charizard", Region: "AU", LastImage: "http://img/a.jpg"},
		{CardName: "Pikachu", Region: "US"},
	}
}

func newBrowse(api *fakeAPI) (*BrowsePage, *fakeSession) {
	session := &fakeSession{token: "tok"}
	return NewBrowsePage(api, session, DefaultSkin()), session
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSavedLoadedReplacesList(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})
	p.loading = true

	p.Update(savedLoadedMsg{items: twoCards()})

	if p.loading {
		t.Error("still loading after savedLoadedMsg")
	}
	if len(p.items) != 2 {
		t.Fatalf("items = %d, want 2", len(p.items))
	}
}

func TestSavedLoadedClampsSelection(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})
	p.items = twoCards()
	p.selected = 1

	p.Update(savedLoadedMsg{items: twoCards()[:1]})

	if p.selected != 0 {
		t.Errorf("selected = %d, want 0", p.selected)
	}
}

func TestUnauthorizedNavigatesToLogin(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})

	_, nav := p.Update(savedLoadedMsg{err: &apiclient.Error{Status: http.StatusUnauthorized}})

	if nav == nil || nav.PageID != "login" {
		t.Fatalf("nav = %+v, want login", nav)
	}
}

func TestActionErrorSurfacesPerAction(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})
	p.items = twoCards()

	cmd, _ := p.Update(actionDoneMsg{action: "refresh", card: "Charizard", err: errors.New("boom")})

	if cmd != nil {
		t.Error("failed action should not trigger a reload")
	}
	if !p.isError || !strings.Contains(p.message, "refresh") || !strings.Contains(p.message, "Charizard") {
		t.Errorf("status = %q isError=%v", p.message, p.isError)
	}
}

func TestActionSuccessReloadsList(t *testing.T) {
	api := &fakeAPI{saved: twoCards()}
	p, _ := newBrowse(api)

	cmd, _ := p.Update(actionDoneMsg{action: "search", card: "Charizard"})
	if cmd == nil {
		t.Fatal("expected reload command after successful action")
	}

	msg := cmd()
	loaded, ok := msg.(savedLoadedMsg)
	if !ok {
		t.Fatalf("msg type = %T", msg)
	}
	if len(loaded.items) != 2 {
		t.Errorf("reloaded items = %d, want 2", len(loaded.items))
	}
}

func TestSelectionKeys(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})
	p.items = twoCards()

	p.Update(keyMsg("down"))
	if p.selected != 1 {
		t.Errorf("selected after down = %d, want 1", p.selected)
	}
	p.Update(keyMsg("down"))
	if p.selected != 1 {
		t.Errorf("selected clamped = %d, want 1", p.selected)
	}
	p.Update(keyMsg("up"))
	if p.selected != 0 {
		t.Errorf("selected after up = %d, want 0", p.selected)
	}
}

func TestSearchSubmitCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newBrowse(api)

	p.Update(keyMsg("/"))
	if !p.searchFormState.active {
		t.Fatal("search form not active after /")
	}

	p.Update(keyMsg("tab"))
	if p.region() != "US" {
		t.Errorf("region after tab = %q, want US", p.region())
	}

	for _, r := range "Mewtwo" {
		p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	cmd, _ := p.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected search command")
	}
	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if len(api.searches) != 1 || api.searches[0] != "Mewtwo/US" {
		t.Errorf("searches = %v", api.searches)
	}
	if p.searchFormState.active {
		t.Error("search form still active after submit")
	}
}

func TestSearchEmptyNameRejected(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})

	p.Update(keyMsg("/"))
	cmd, _ := p.Update(keyMsg("enter"))

	if cmd != nil {
		t.Error("empty search should not produce a command")
	}
	if !p.isError {
		t.Error("empty search should set an error status")
	}
}

func TestRefreshUsesSelectedCard(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newBrowse(api)
	p.items = twoCards()
	p.selected = 1

	cmd, _ := p.Update(keyMsg("r"))
	if cmd == nil {
		t.Fatal("expected refresh command")
	}
	cmd()
	if len(api.refreshes) != 1 || api.refreshes[0] != "Pikachu" {
		t.Errorf("refreshes = %v", api.refreshes)
	}
}

func TestConfirmRequiresImage(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newBrowse(api)
	p.items = twoCards()

	// First card has an image.
	cmd, _ := p.Update(keyMsg("c"))
	if cmd == nil {
		t.Fatal("expected confirm command")
	}
	cmd()
	if len(api.confirms) != 1 || api.confirms[0] != "Charizard/http://img/a.jpg" {
		t.Errorf("confirms = %v", api.confirms)
	}

	// Second card has none.
	p.selected = 1
	cmd, _ = p.Update(keyMsg("c"))
	if cmd != nil {
		t.Error("confirm without image should not produce a command")
	}
	if !p.isError {
		t.Error("confirm without image should set an error status")
	}
}

func TestLogoutClearsSessionAndNavigates(t *testing.T) {
	p, session := newBrowse(&fakeAPI{})

	_, nav := p.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	if !session.cleared {
		t.Error("session not cleared on logout")
	}
	if nav == nil || nav.PageID != "login" {
		t.Errorf("nav = %+v, want login", nav)
	}
}

func TestLoginSuccessStoresTokenAndNavigates(t *testing.T) {
	session := &fakeSession{}
	p := NewLoginPage(&fakeAPI{}, session, DefaultSkin())

	_, nav := p.Update(loginDoneMsg{token: "fresh-token"})

	if session.token != "fresh-token" {
		t.Errorf("session token = %q", session.token)
	}
	if nav == nil || nav.PageID != "browse" {
		t.Errorf("nav = %+v, want browse", nav)
	}
}

func TestLoginFailureShowsError(t *testing.T) {
	session := &fakeSession{}
	p := NewLoginPage(&fakeAPI{}, session, DefaultSkin())

	_, nav := p.Update(loginDoneMsg{err: &apiclient.Error{Status: 400, Message: "incorrect username or password"}})

	if nav != nil {
		t.Error("failed login should not navigate")
	}
	if !p.isError || !strings.Contains(p.message, "incorrect") {
		t.Errorf("message = %q", p.message)
	}
}

func TestBrowseViewPlaceholderWhenEmpty(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})

	out := p.View(100, 30)
	if !strings.Contains(out, "log in and search") {
		t.Error("empty list placeholder missing")
	}
}

func TestBrowseViewListsCards(t *testing.T) {
	p, _ := newBrowse(&fakeAPI{})
	p.items = twoCards()

	out := p.View(100, 40)
	if !strings.Contains(out, "Charizard") || !strings.Contains(out, "Pikachu") {
		t.Error("card names missing from view")
	}
}
