package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/amsavalli07/socialsync/internal/auth"
	"github.com/amsavalli07/socialsync/internal/composer"
	"github.com/amsavalli07/socialsync/internal/credentials"
	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AuthView ViewState = iota
	MenuView
	DashboardView
	PostView
	CredentialsView
	CredentialFormView
	AccountView
	LogoutAction
)

// Deps are the workflows the TUI drives.
type Deps struct {
	Auth        *auth.Controller
	Credentials *credentials.Manager
	Composer    *composer.Composer
	Sessions    *session.Manager
	Board       *notify.Board
	ClearDelay  time.Duration
	Logger      *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	auth       *auth.Controller
	creds      *credentials.Manager
	composer   *composer.Composer
	sessions   *session.Manager
	board      *notify.Board
	clearDelay time.Duration
	logger     *log.Logger
	changes    chan struct{}
	theme      session.Theme
	palette    *Palette
	width      int
	height     int
	menu       list.Model
	providers  list.Model
	form       form
	authKind   auth.Kind
	provider   models.Provider
	onPlatform bool
	cursor     int
	busy       bool
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model. It takes over d.Board's OnChange callback.
func NewModel(ctx context.Context, d Deps) *Model {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := &Model{
		ctx:        ctx,
		auth:       d.Auth,
		creds:      d.Credentials,
		composer:   d.Composer,
		sessions:   d.Sessions,
		board:      d.Board,
		clearDelay: d.ClearDelay,
		logger:     logger.WithPrefix("ui"),
		changes:    make(chan struct{}, 1),
		menu:       newList(menuItems(), "SocialSync"),
		providers:  newList(nil, "Social Media Manager"),
		help:       help.New(),
		keys:       newKeyMap(),
	}
	m.board.OnChange = func(notify.Notice, bool) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	m.applyTheme(d.Sessions.Theme())

	st := m.auth.Resume()
	if m.auth.Authenticated() {
		m.view = MenuView
	} else {
		m.view = AuthView
		m.buildAuthForm(st)
	}
	return m
}

// ViewState reports the current view.
func (m *Model) ViewState() ViewState { return m.view }

// Init starts listening for notice changes.
func (m *Model) Init() tea.Cmd {
	return m.waitForBoard()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		m.providers.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.theme):
			return m, m.toggleTheme()
		case key.Matches(msg, m.keys.dismiss):
			m.board.Dismiss()
			return m, nil
		}
		if m.busy {
			return m, nil
		}

		switch m.view {
		case AuthView:
			return m.handleAuthKeys(msg)
		case MenuView:
			return m.handleMenuKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case PostView:
			return m.handlePostKeys(msg)
		case CredentialsView:
			return m.handleCredentialsKeys(msg)
		case CredentialFormView:
			return m.handleCredentialFormKeys(msg)
		case AccountView:
			return m.handleAccountKeys(msg)
		}
	}

	return m.updateCurrent(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgBoardChanged:
		return m, m.waitForBoard()

	case MsgStatusesLoaded:
		m.busy = false
		m.setProviderItems(msg.data.(map[models.Provider]credentials.Status))
		return m, nil

	case MsgDraftCleared:
		m.syncPostForm()
		return m, nil

	case MsgSettled:
		s := msg.data.(settled)
		m.busy = false
		return m, m.afterSettled(s)
	}
	return m, nil
}

// afterSettled shows the notice of a finished action and moves to the next view.
func (m *Model) afterSettled(s settled) tea.Cmd {
	if s.op != OpPost && s.notice.Message != "" {
		m.board.Show(s.notice)
	}

	switch s.op {
	case OpAuth:
		if m.auth.Authenticated() {
			m.view = MenuView
			m.applyTheme(m.sessions.Theme())
			return nil
		}
		st := m.auth.State()
		if st.Kind != m.authKind || s.notice.OK() {
			m.buildAuthForm(st)
		}
	case OpSaveCredentials:
		if s.notice.OK() {
			m.view = CredentialsView
			m.setProviderItems(m.currentStatuses())
		}
	case OpAccount:
		if s.notice.OK() {
			m.form.clear()
		}
	case OpPost:
		if s.notice.OK() {
			return m.afterClear()
		}
	}
	return nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case AuthView:
		body = m.form.view(m.palette) + m.helpFor(m.authKeys()...)
	case MenuView:
		body = m.renderMenu()
	case DashboardView:
		body = m.renderDashboard()
	case PostView:
		body = m.renderPost()
	case CredentialsView:
		body = m.providers.View() + "\n\n" + m.helpFor(m.keys.enter, m.keys.back, m.keys.quit)
	case CredentialFormView:
		body = m.form.view(m.palette) + m.helpFor(m.keys.next, m.keys.submit, m.keys.back)
	case AccountView:
		body = m.form.view(m.palette) + m.helpFor(m.keys.submit, m.keys.reset, m.keys.back)
	}

	if n, ok := m.board.Current(); ok {
		body += "\n\n" + m.palette.Notice(n)
	}
	if m.busy {
		body += "\n" + m.palette.help.Render("working...")
	}
	return body
}

func (m *Model) helpFor(bindings ...key.Binding) string {
	return m.help.ShortHelpView(append(bindings, m.keys.theme))
}

func (m *Model) authKeys() []key.Binding {
	switch m.authKind {
	case auth.SignIn:
		return []key.Binding{m.keys.submit, m.keys.signUp, m.keys.forgot, m.keys.quit}
	case auth.SignUp, auth.ForgotPassword:
		return []key.Binding{m.keys.submit, m.keys.back, m.keys.quit}
	}
	return []key.Binding{m.keys.submit, m.keys.quit}
}

// buildAuthForm replaces the form with the fields of st.
func (m *Model) buildAuthForm(st auth.State) {
	m.authKind = st.Kind
	switch st.Kind {
	case auth.SignUp:
		m.form = newForm("Create an account", "Name", "Email", "Password", "Confirm password")
	case auth.ForgotPassword:
		m.form = newForm("Forgot password", "Email")
		m.form.setValue(0, st.Email)
	case auth.OTPVerify:
		m.form = newForm("Enter the code sent to "+st.Email, "One-time code")
	case auth.NewPassword:
		m.form = newForm("Choose a new password", "New password", "Confirm password")
	default:
		m.form = newForm("Sign in", "Email", "Password")
	}
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.down):
		return m, m.form.next()
	case key.Matches(msg, m.keys.prev), key.Matches(msg, m.keys.up):
		return m, m.form.prev()
	case key.Matches(msg, m.keys.submit), msg.Type == tea.KeyEnter && m.form.focus == len(m.form.fields)-1:
		return m, m.submitAuth()
	case key.Matches(msg, m.keys.enter):
		return m, m.form.next()
	case key.Matches(msg, m.keys.signUp) && m.authKind == auth.SignIn:
		return m, m.navigate(m.auth.GoToSignUp())
	case key.Matches(msg, m.keys.forgot) && m.authKind == auth.SignIn:
		return m, m.navigate(m.auth.GoToForgot(m.form.value(0)))
	case key.Matches(msg, m.keys.back) && (m.authKind == auth.SignUp || m.authKind == auth.ForgotPassword):
		return m, m.navigate(m.auth.BackToSignIn())
	}
	return m, m.form.update(msg)
}

func (m *Model) navigate(err error) tea.Cmd {
	if err != nil {
		m.logger.Warn("navigation refused", "error", err)
		return nil
	}
	m.board.Dismiss()
	m.buildAuthForm(m.auth.State())
	return nil
}

// submitAuth runs the submission of the current auth state as a command.
func (m *Model) submitAuth() tea.Cmd {
	v := m.form.values()
	ctx := m.ctx
	var run func() notify.Notice

	switch m.authKind {
	case auth.SignIn:
		run = func() notify.Notice { return m.auth.SubmitSignIn(ctx, v[0], v[1]) }
	case auth.SignUp:
		form := auth.SignUpForm{Name: v[0], Email: v[1], Password: v[2], PasswordConfirm: v[3]}
		run = func() notify.Notice { return m.auth.SubmitSignUp(ctx, form) }
	case auth.ForgotPassword:
		run = func() notify.Notice { return m.auth.SubmitForgot(ctx, v[0]) }
	case auth.OTPVerify:
		run = func() notify.Notice { return m.auth.SubmitOTP(ctx, v[0]) }
	case auth.NewPassword:
		run = func() notify.Notice { return m.auth.SubmitNewPassword(ctx, v[0], v[1]) }
	default:
		return nil
	}
	return m.run(OpAuth, run)
}

// run executes fn off the update loop and reports its notice as [MsgSettled].
func (m *Model) run(op Op, fn func() notify.Notice) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		return settledMsg(op, fn())
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.enter) {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}

	item, ok := m.menu.SelectedItem().(menuItem)
	if !ok {
		return m, nil
	}
	return m, m.open(item.view)
}

// open switches to view, preparing its state.
func (m *Model) open(view ViewState) tea.Cmd {
	switch view {
	case LogoutAction:
		n := m.auth.Logout()
		m.creds.Reset()
		m.composer.Discard()
		m.board.Show(n)
		m.applyTheme(m.sessions.Theme())
		m.view = AuthView
		m.buildAuthForm(m.auth.State())
		return nil
	case PostView:
		m.form = newForm("Post to Platforms", "Image path", "Caption")
		m.form.fields[1].input.CharLimit = models.MaxCaptionLength
		m.onPlatform, m.cursor = false, 0
		m.view = view
		m.syncPostForm()
		return nil
	case CredentialsView:
		m.view = view
		m.busy = true
		m.setProviderItems(m.currentStatuses())
		return m.loadStatuses()
	case AccountView:
		m.form = newForm("Account", "Old password", "New password", "Confirm password")
	}
	m.view = view
	return nil
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) || key.Matches(msg, m.keys.enter) {
		m.view = MenuView
	}
	return m, nil
}

func (m *Model) renderMenu() string {
	header := ""
	if s, ok, _ := m.sessions.Load(); ok {
		header = m.palette.help.Render("Signed in as "+s.Email) + "\n\n"
	}
	return header + m.menu.View() + "\n\n" + m.helpFor(m.keys.enter, m.keys.quit)
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.palette.title.Render("Dashboard"))
	b.WriteString("\n")

	if s, ok, _ := m.sessions.Load(); ok {
		verified := "no"
		if s.Verified {
			verified = "yes"
		}
		fmt.Fprintf(&b, "Email:    %s\nUser id:  %s\nRole:     %s\nVerified: %s\n\n", s.Email, s.UserID, s.Role, verified)
	}

	labels := make([]string, 0, len(models.AllPlatforms()))
	for _, p := range m.composer.Selected() {
		labels = append(labels, p.Label())
	}
	fmt.Fprintf(&b, "Selected platforms: %s\n", strings.Join(labels, ", "))

	for _, p := range models.AllProviders() {
		state := "not configured"
		if m.creds.Status(p).IsConfigured() {
			state = "configured"
		}
		fmt.Fprintf(&b, "%s credentials: %s\n", p.Label(), state)
	}
	b.WriteString("\n" + m.helpFor(m.keys.back))
	return b.String()
}

func (m *Model) handlePostKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m, m.submitPost()
	case key.Matches(msg, m.keys.remove):
		m.composer.RemoveImage()
		m.form.setValue(0, "")
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.cyclePost(1)
	case key.Matches(msg, m.keys.prev):
		return m, m.cyclePost(-1)
	}

	if m.onPlatform {
		platforms := models.AllPlatforms()
		switch {
		case key.Matches(msg, m.keys.up):
			m.cursor = (m.cursor - 1 + len(platforms)) % len(platforms)
		case key.Matches(msg, m.keys.down):
			m.cursor = (m.cursor + 1) % len(platforms)
		case key.Matches(msg, m.keys.toggle), key.Matches(msg, m.keys.enter):
			if err := m.composer.TogglePlatform(string(platforms[m.cursor])); err != nil {
				m.logger.Warn("toggle failed", "error", err)
			}
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.enter) && m.form.focus == 0 {
		return m, m.attach(m.form.value(0))
	}

	cmd := m.form.update(msg)
	if m.form.focus == 1 {
		m.composer.SetCaption(m.form.value(1))
	}
	return m, cmd
}

// cyclePost moves focus through image path, caption and the platform checklist.
func (m *Model) cyclePost(dir int) tea.Cmd {
	// positions: 0 image, 1 caption, 2 platforms
	pos := m.form.focus
	if m.onPlatform {
		pos = 2
	}
	pos = (pos + dir + 3) % 3

	if pos == 2 {
		m.onPlatform = true
		m.form.blur()
		return nil
	}
	m.onPlatform = false
	m.form.fields[m.form.focus].input.Blur()
	m.form.focus = pos
	return m.form.fields[pos].input.Focus()
}

func (m *Model) attach(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return m.run(OpAttach, func() notify.Notice {
		f, err := composer.ReadFile(path)
		if err != nil {
			return notify.Failed(err.Error(), err)
		}
		out, err := m.composer.AttachImage(f)
		switch {
		case err != nil:
			return notify.Failed(err.Error(), err)
		case out == composer.Rejected:
			m.logger.Debug("ignored non-image file", "name", f.Name)
			return notify.Notice{}
		}
		return notify.Informed("Attached " + f.Name)
	})
}

func (m *Model) submitPost() tea.Cmd {
	m.composer.SetCaption(m.form.value(1))
	return m.run(OpPost, func() notify.Notice {
		_, n := m.composer.Submit(m.ctx)
		return n
	})
}

// afterClear re-reads the draft once the composer's clear delay has passed.
func (m *Model) afterClear() tea.Cmd {
	return tea.Tick(m.clearDelay+50*time.Millisecond, func(time.Time) tea.Msg {
		return draftClearedMsg()
	})
}

// syncPostForm copies the composer draft into the post form.
func (m *Model) syncPostForm() {
	if m.view != PostView {
		return
	}
	d := m.composer.Draft()
	if d.Image == "" {
		m.form.setValue(0, "")
	}
	m.form.setValue(1, d.Caption)
}

func (m *Model) renderPost() string {
	var b strings.Builder
	b.WriteString(m.form.view(m.palette))

	d := m.composer.Draft()
	if d.Image != "" {
		fmt.Fprintf(&b, "%s\n", m.palette.ok.Render(fmt.Sprintf("Image: %s (%s)", d.ImageName, d.MediaType)))
	} else {
		b.WriteString(m.palette.help.Render("No image attached") + "\n")
	}
	fmt.Fprintf(&b, "Caption: %d/%d\n\n", len([]rune(d.Caption)), models.MaxCaptionLength)

	title := "Platforms"
	if m.onPlatform {
		title = "> Platforms"
	}
	b.WriteString(m.palette.focus.Render(title) + "\n")

	selected := make(map[models.Platform]bool)
	for _, p := range d.Platforms {
		selected[p] = true
	}
	for i, p := range models.AllPlatforms() {
		box := "[ ]"
		if selected[p] {
			box = "[x]"
		}
		cursor := "  "
		if m.onPlatform && i == m.cursor {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, p.Label())
	}

	if !m.composer.CanPost() {
		b.WriteString("\n" + m.palette.warn.Render(composer.MsgNotPostable) + "\n")
	}
	b.WriteString("\n" + m.helpFor(m.keys.next, m.keys.toggle, m.keys.submit, m.keys.remove, m.keys.back))
	return b.String()
}

func (m *Model) loadStatuses() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return statusesLoadedMsg(m.creds.Refresh(ctx))
	}
}

func (m *Model) currentStatuses() map[models.Provider]credentials.Status {
	out := make(map[models.Provider]credentials.Status)
	for _, p := range models.AllProviders() {
		out[p] = m.creds.Status(p)
	}
	return out
}

func (m *Model) setProviderItems(statuses map[models.Provider]credentials.Status) {
	items := make([]list.Item, 0, len(statuses))
	for _, p := range models.AllProviders() {
		items = append(items, providerItem{provider: p, status: statuses[p]})
	}
	m.providers.SetItems(items)
}

func (m *Model) handleCredentialsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		item, ok := m.providers.SelectedItem().(providerItem)
		if !ok {
			return m, nil
		}
		m.openCredentialForm(item.provider)
		return m, nil
	}

	var cmd tea.Cmd
	m.providers, cmd = m.providers.Update(msg)
	return m, cmd
}

// openCredentialForm builds the setup or edit form of p, pre-filled with the stored record.
func (m *Model) openCredentialForm(p models.Provider) {
	m.provider = p
	title := fmt.Sprintf("%s credentials (%s)", p.Label(), m.creds.Mode(p))

	switch rec := m.creds.Form(p).(type) {
	case models.InstagramCredentials:
		m.form = newForm(title, "Access token", "Instagram user id")
		m.form.setValue(0, rec.AccessToken)
		m.form.setValue(1, rec.IGUserID)
	case models.FacebookCredentials:
		m.form = newForm(title, "Page id", "Access token")
		m.form.setValue(0, rec.PageID)
		m.form.setValue(1, rec.AccessToken)
	case models.BothCredentials:
		m.form = newForm(title, "Instagram access token", "Instagram user id", "Facebook page id", "Facebook access token")
		if rec.Instagram != nil {
			m.form.setValue(0, rec.Instagram.AccessToken)
			m.form.setValue(1, rec.Instagram.IGUserID)
		}
		if rec.Facebook != nil {
			m.form.setValue(2, rec.Facebook.PageID)
			m.form.setValue(3, rec.Facebook.AccessToken)
		}
	}
	m.view = CredentialFormView
}

// credentialRecord reads the credential form back into a record.
func (m *Model) credentialRecord() models.Credentials {
	v := m.form.values()
	switch m.provider {
	case models.ProviderInstagram:
		return models.InstagramCredentials{AccessToken: v[0], IGUserID: v[1]}
	case models.ProviderFacebook:
		return models.FacebookCredentials{PageID: v[0], AccessToken: v[1]}
	default:
		return models.BothCredentials{
			Instagram: &models.InstagramCredentials{AccessToken: v[0], IGUserID: v[1]},
			Facebook:  &models.FacebookCredentials{PageID: v[2], AccessToken: v[3]},
		}
	}
}

func (m *Model) handleCredentialFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = CredentialsView
		return m, nil
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.down), key.Matches(msg, m.keys.enter):
		return m, m.form.next()
	case key.Matches(msg, m.keys.prev), key.Matches(msg, m.keys.up):
		return m, m.form.prev()
	case key.Matches(msg, m.keys.submit):
		rec, mode := m.credentialRecord(), m.creds.Mode(m.provider)
		return m, m.run(OpSaveCredentials, func() notify.Notice {
			return m.creds.Save(m.ctx, rec, mode)
		})
	}
	return m, m.form.update(msg)
}

func (m *Model) handleAccountKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.form.values()
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
		return m, nil
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.down), key.Matches(msg, m.keys.enter):
		return m, m.form.next()
	case key.Matches(msg, m.keys.prev), key.Matches(msg, m.keys.up):
		return m, m.form.prev()
	case key.Matches(msg, m.keys.submit):
		return m, m.run(OpAccount, func() notify.Notice {
			return m.auth.ChangePassword(m.ctx, v[0], v[1], v[2])
		})
	case key.Matches(msg, m.keys.reset):
		return m, m.run(OpAccount, func() notify.Notice {
			return m.auth.ResetPassword(m.ctx, v[1], v[2])
		})
	}
	return m, m.form.update(msg)
}

func (m *Model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menu, cmd = m.menu.Update(msg)
	case CredentialsView:
		m.providers, cmd = m.providers.Update(msg)
	case AuthView, PostView, CredentialFormView, AccountView:
		cmd = m.form.update(msg)
	}
	return m, cmd
}

// toggleTheme flips and persists the theme.
func (m *Model) toggleTheme() tea.Cmd {
	next := m.theme.Toggle()
	if err := m.sessions.SetTheme(next); err != nil {
		m.logger.Error("failed to persist theme", "error", err)
		m.board.Show(notify.Failed("Failed to save theme", err))
	}
	m.applyTheme(next)
	return nil
}

func (m *Model) applyTheme(t session.Theme) {
	m.theme = t
	m.palette = PaletteFor(t)
}

// Theme reports the active theme.
func (m *Model) Theme() session.Theme { return m.theme }

// waitForBoard blocks until the board reports a change or ctx ends.
func (m *Model) waitForBoard() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return boardChangedMsg()
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Close releases timers held by the composer and the board.
func (m *Model) Close() {
	m.composer.Close()
	m.board.Close()
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, d Deps, opts ...tea.ProgramOption) error {
	m := NewModel(ctx, d)
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
