package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/favorites"
	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/session"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PopularView ViewState = iota
	DetailsView
	FavoritesView
)

// Deps are the core services the TUI drives.
type Deps struct {
	Session   *session.Store
	Engine    *tasks.Engine
	Favorites *favorites.Coordinator
	Logger    *log.Logger
	// Open opens a URL; defaults to [shared.OpenBrowser].
	Open func(url string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	prev    ViewState
	session *session.Store
	engine  *tasks.Engine
	pager   *tasks.PopularPager
	favs    *favorites.Coordinator
	logger  *log.Logger
	open    func(string) error

	width, height int
	popular       list.Model
	favorites     list.Model
	loadingPage   bool

	details  *models.MovieDetails
	status   *models.FavoriteStatus
	loading  bool
	toggling bool

	err     error
	expired bool
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = shared.NopLogger()
	}
	open := deps.Open
	if open == nil {
		open = shared.OpenBrowser
	}

	popular := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	popular.Title = "Popular Movies"
	favs := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	favs.Title = "Favorites"

	return &Model{
		ctx:       ctx,
		view:      PopularView,
		session:   deps.Session,
		engine:    deps.Engine,
		pager:     deps.Engine.Popular(),
		favs:      deps.Favorites,
		logger:    logger,
		open:      open,
		popular:   popular,
		favorites: favs,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading the first page of popular movies.
func (m *Model) Init() tea.Cmd {
	return m.loadNextPage()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.popular.SetSize(msg.Width-4, msg.Height-8)
		m.favorites.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.expired {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case PopularView:
			return m.handlePopularKeys(msg)
		case DetailsView:
			return m.handleDetailsKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPageLoaded:
		data := msg.data.(pageLoaded)
		m.loadingPage = false
		if data.err != nil {
			m.fail("load popular movies", data.err)
			return m, nil
		}
		if data.page == nil {
			return m, nil
		}
		return m, m.popular.SetItems(movieItems(m.pager.Movies()))

	case MsgDetailsLoaded:
		data := msg.data.(detailsLoaded)
		m.loading = false
		if data.err != nil {
			m.fail("load movie details", data.err)
			m.view = m.prev
			return m, nil
		}
		m.details = data.details
		m.status = data.status
		return m, nil

	case MsgFavoriteToggled:
		data := msg.data.(favoriteToggled)
		m.toggling = false
		if data.err != nil {
			m.fail("toggle favorite", data.err)
			return m, nil
		}
		if st, ok := m.favs.Cached(data.movieID); ok && m.details != nil && m.details.ID == data.movieID {
			m.status = st
		}
		return m, nil

	case MsgFavoritesLoaded:
		data := msg.data.(favoritesLoaded)
		m.loading = false
		if data.err != nil {
			m.fail("load favorites", data.err)
			return m, nil
		}
		return m, m.favorites.SetItems(favoriteItems(data.favorites))

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.fail("open homepage", err)
		}
		return m, nil
	}
	return m, nil
}

// fail records err for the banner. A 401 means the client evicted the stored token, so the
// session is reloaded and the TUI stops once it reports unauthenticated.
func (m *Model) fail(action string, err error) {
	m.logger.Error("failed to "+action, "error", err)
	m.err = err
	if errors.Is(err, shared.ErrUnauthorized) && m.session != nil {
		m.session.Initialize()
		m.expired = m.session.Status() == session.StatusUnauthenticated
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.expired {
		return styles.err.Render("Session expired. Run `reelx auth login` to sign in again.\n\nPress any key to quit")
	}

	var body string
	switch m.view {
	case PopularView:
		body = m.renderPopular()
	case DetailsView:
		body = m.renderDetails()
	case FavoritesView:
		body = m.renderFavorites()
	}

	var b strings.Builder
	if header := m.renderHeader(); header != "" {
		b.WriteString(header)
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styles.banner.Render(services.AsAPIError(m.err).Message))
		b.WriteString("\n")
	}
	b.WriteString(body)
	return b.String()
}

func (m *Model) handlePopularKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.popular.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if it, ok := m.popular.SelectedItem().(movieItem); ok {
			return m, m.showDetails(it.movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorites):
		return m, m.showFavorites()
	case key.Matches(msg, m.keys.reload):
		m.pager.Reset()
		cmd := m.popular.SetItems(nil)
		return m, tea.Batch(cmd, m.loadNextPage())
	}

	var cmd tea.Cmd
	m.popular, cmd = m.popular.Update(msg)
	if n := len(m.popular.Items()); n > 0 && m.popular.Index() >= n-1 {
		return m, tea.Batch(cmd, m.loadNextPage())
	}
	return m, cmd
}

func (m *Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
		m.view = m.prev
		if m.view == FavoritesView {
			return m, m.loadFavorites()
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite()
	case key.Matches(msg, m.keys.open):
		if m.details == nil || m.details.Homepage == "" {
			return m, nil
		}
		url := m.details.Homepage
		return m, func() tea.Msg { return browserOpenedMsg(m.open(url)) }
	}
	return m, nil
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.favorites.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PopularView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if it, ok := m.favorites.SelectedItem().(favoriteItem); ok {
			return m, m.showDetails(it.favorite.MovieID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favorites, cmd = m.favorites.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PopularView:
		m.popular, cmd = m.popular.Update(msg)
	case FavoritesView:
		m.favorites, cmd = m.favorites.Update(msg)
	}
	return m, cmd
}

// toggleFavorite is ignored while a mutation is pending or before the status is known.
func (m *Model) toggleFavorite() tea.Cmd {
	if m.details == nil || m.status == nil || m.toggling || m.favs.IsLoading() {
		return nil
	}
	m.toggling = true
	m.err = nil
	id, current := m.details.ID, m.status.IsFavorite
	return func() tea.Msg {
		return favoriteToggledMsg(id, m.favs.Toggle(m.ctx, id, current))
	}
}

func (m *Model) loadNextPage() tea.Cmd {
	if m.loadingPage || !m.pager.HasNext() {
		return nil
	}
	m.loadingPage = true
	return func() tea.Msg {
		page, err := m.pager.Next(m.ctx)
		return pageLoadedMsg(page, err)
	}
}

func (m *Model) showDetails(movieID int) tea.Cmd {
	m.prev = m.view
	m.view = DetailsView
	m.details = nil
	m.status = nil
	m.loading = true

	return func() tea.Msg {
		details, err := m.engine.Details(m.ctx, movieID)
		if err != nil {
			return detailsLoadedMsg(nil, nil, err)
		}
		status, err := m.favs.Check(m.ctx, movieID, true)
		if err != nil {
			m.logger.Warn("favorite status unavailable", "movie", movieID, "error", err)
			status = nil
		}
		return detailsLoadedMsg(details, status, nil)
	}
}

func (m *Model) showFavorites() tea.Cmd {
	m.view = FavoritesView
	return m.loadFavorites()
}

func (m *Model) loadFavorites() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		favs, err := m.favs.List(m.ctx)
		return favoritesLoadedMsg(favs, err)
	}
}

func (m *Model) renderHeader() string {
	if m.session == nil {
		return ""
	}
	state := m.session.Snapshot()
	if !state.IsAuthenticated {
		return ""
	}
	return styles.help.Render("Signed in as " + state.User.DisplayName())
}

func (m *Model) renderPopular() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.favorites, m.keys.reload, m.keys.quit}
	footer := m.help.ShortHelpView(helpKeys)
	if m.loadingPage {
		footer = styles.warn.Render("Loading more movies...") + "\n" + footer
	}
	return fmt.Sprintf("%s\n\n%s", m.popular.View(), footer)
}

func (m *Model) renderDetails() string {
	helpKeys := []key.Binding{m.keys.favorite, m.keys.open, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.loading || m.details == nil {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("Loading movie..."), helpView)
	}

	v := models.NewMovieView(m.details)
	title := styles.title.Render(fmt.Sprintf("%s (%s)", v.Title, v.Year))

	var fav *bool
	if m.status != nil {
		fav = &m.status.IsFavorite
	}
	card := string(formatter.DetailsCard(v, fav))
	if _, after, ok := strings.Cut(card, "\n"); ok {
		card = after
	}

	var state string
	switch {
	case m.toggling || m.favs.IsLoading():
		state = styles.warn.Render("Saving...")
	case m.status != nil && m.status.IsFavorite:
		state = styles.ok.Render("★ In your favorites")
	case m.status != nil:
		state = styles.help.Render("☆ Not a favorite")
	default:
		state = styles.help.Render("Favorite status unavailable")
	}

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, card, state, helpView)
}

func (m *Model) renderFavorites() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	footer := m.help.ShortHelpView(helpKeys)
	if m.loading {
		footer = styles.warn.Render("Loading favorites...") + "\n" + footer
	}
	return fmt.Sprintf("%s\n\n%s", m.favorites.View(), footer)
}
