package tui

import (
	"context"
	"time"

	"github.com/slabwatch/slabwatch/internal/apiclient"
	"github.com/slabwatch/slabwatch/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
)

// API is the server surface the TUI calls. *apiclient.Client satisfies it.
type API interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Saved(ctx context.Context) ([]model.SavedResult, error)
	Search(ctx context.Context, cardName, region string) (*apiclient.SearchResult, error)
	Refresh(ctx context.Context, cardName string) (*apiclient.SearchResult, error)
	ConfirmImage(ctx context.Context, cardName, imageURL string) error
}

// SessionStore persists the bearer token between runs.
type SessionStore interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

// requestTimeout bounds every API call issued from the TUI.
const requestTimeout = 30 * time.Second

// regions the search form cycles through.
var regions = []string{"AU", "US"}

// resultsState holds the saved-search list and selection.
type resultsState struct {
	items    []model.SavedResult
	selected int
	loading  bool
}

// searchFormState holds the card-name input and region picker.
type searchFormState struct {
	input     textinput.Model
	regionIdx int
	active    bool
}

func (s *searchFormState) region() string {
	return regions[s.regionIdx]
}

func (s *searchFormState) cycleRegion() {
	s.regionIdx = (s.regionIdx + 1) % len(regions)
}

// statusState is the one-line action feedback at the bottom of the page.
// Every action reports here individually so a failed refresh on one card
// never masks the rest of the list.
type statusState struct {
	message string
	isError bool
	setAt   time.Time
}

func (s *statusState) set(msg string) {
	s.message, s.isError, s.setAt = msg, false, time.Now()
}

func (s *statusState) setError(msg string) {
	s.message, s.isError, s.setAt = msg, true, time.Now()
}

// BrowsePage is the main screen: saved cards, search form, per-card actions.
type BrowsePage struct {
	resultsState
	searchFormState
	statusState

	api     API
	session SessionStore
	keys    KeyMap
	styles  Styles
}

// NewBrowsePage creates the browse page.
func NewBrowsePage(api API, session SessionStore, skin Skin) *BrowsePage {
	input := textinput.New()
	input.Placeholder = "Card name, e.g. Charizard VMAX"
	input.CharLimit = 120

	return &BrowsePage{
		searchFormState: searchFormState{input: input},
		api:             api,
		session:         session,
		keys:            DefaultKeyMap(),
		styles:          NewStyles(skin),
	}
}

func (p *BrowsePage) ID() string { return "browse" }

// selectedCard returns the currently selected saved search, or nil.
func (p *BrowsePage) selectedCard() *model.SavedResult {
	if p.selected < 0 || p.selected >= len(p.items) {
		return nil
	}
	return &p.items[p.selected]
}
