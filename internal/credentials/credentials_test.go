package credentials

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/services"
	"github.com/amsavalli07/socialsync/internal/session"
	"github.com/amsavalli07/socialsync/internal/shared"
	tu "github.com/amsavalli07/socialsync/internal/testing"
)

// memoryAPI is an in-process backend keyed by provider.
type memoryAPI struct {
	records map[models.Provider]models.Credentials
	saveErr error
	getErr  error
	saves   []string
}

func newMemoryAPI() *memoryAPI {
	return &memoryAPI{records: make(map[models.Provider]models.Credentials)}
}

func (a *memoryAPI) GetCredentials(_ context.Context, p models.Provider, _ string) (models.Credentials, error) {
	if a.getErr != nil {
		return nil, a.getErr
	}
	if r, ok := a.records[p]; ok {
		return r, nil
	}
	return models.BlankCredentials(p, ""), nil
}

func (a *memoryAPI) SaveCredentials(_ context.Context, cred models.Credentials) error {
	a.saves = append(a.saves, "POST "+string(cred.Provider()))
	if a.saveErr != nil {
		return a.saveErr
	}
	a.records[cred.Provider()] = cred
	return nil
}

func (a *memoryAPI) UpdateCredentials(_ context.Context, cred models.Credentials) error {
	a.saves = append(a.saves, "PUT "+string(cred.Provider()))
	if a.saveErr != nil {
		return a.saveErr
	}
	a.records[cred.Provider()] = cred
	return nil
}

func signedIn(t *testing.T) *session.Manager {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore())
	require.NoError(t, sessions.Replace(session.Session{Token: "jwt", UserID: "u1", Email: "ann@x.com"}))
	return sessions
}

func TestStatus(t *testing.T) {
	assert.False(t, NotConfigured().IsConfigured())
	assert.Equal(t, Setup, NotConfigured().Mode())

	assert.False(t, Configured(models.InstagramCredentials{}).IsConfigured(), "empty payloads are not configured")
	st := Configured(models.InstagramCredentials{AccessToken: "tok"})
	assert.True(t, st.IsConfigured())
	assert.Equal(t, Edit, st.Mode())
}

func TestSaveThenFetch(t *testing.T) {
	ctx := context.Background()
	api := newMemoryAPI()
	m := NewManager(api, signedIn(t), log.New(io.Discard))

	assert.Equal(t, Setup, m.Fetch(ctx, models.ProviderInstagram).Mode())

	form := m.Form(models.ProviderInstagram).(models.InstagramCredentials)
	assert.Equal(t, "u1", form.UserID, "setup form carries the session user id")

	form.AccessToken, form.IGUserID = "tok", "ig-1"
	n := m.Save(ctx, form, m.Mode(models.ProviderInstagram))
	require.True(t, n.OK(), n.Message)
	assert.Equal(t, "Instagram credentials saved successfully!", n.Message)
	assert.Equal(t, []string{"POST instagram"}, api.saves)

	st := m.Status(models.ProviderInstagram)
	require.True(t, st.IsConfigured())
	assert.Equal(t, form, st.Record())
	assert.Equal(t, Edit, m.Mode(models.ProviderInstagram))

	edited := m.Form(models.ProviderInstagram).(models.InstagramCredentials)
	assert.Equal(t, "tok", edited.AccessToken, "edit form is pre-filled")
	edited.AccessToken = "tok-2"
	n = m.Save(ctx, edited, Edit)
	assert.Equal(t, "Instagram credentials updated successfully!", n.Message)
	assert.Equal(t, "PUT instagram", api.saves[1])
}

func TestSaveBoth(t *testing.T) {
	ctx := context.Background()
	api := newMemoryAPI()
	m := NewManager(api, signedIn(t), log.New(io.Discard))

	cred := models.BothCredentials{
		UserID:    "someone-else",
		Instagram: &models.InstagramCredentials{AccessToken: "a", IGUserID: "b"},
		Facebook:  &models.FacebookCredentials{PageID: "c", AccessToken: "d"},
	}
	n := m.Save(ctx, cred, Setup)
	assert.Equal(t, "Both platform credentials saved successfully!", n.Message)

	stored := api.records[models.ProviderBoth].(models.BothCredentials)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, "u1", stored.Instagram.UserID)
	assert.Equal(t, "u1", stored.Facebook.UserID)
}

func TestSaveFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		api := newMemoryAPI()
		m := NewManager(api, signedIn(t), log.New(io.Discard))

		n := m.Save(ctx, models.FacebookCredentials{PageID: "p"}, Setup)
		assert.Equal(t, MsgMissingField, n.Message)
		assert.ErrorIs(t, n.Err, shared.ErrInvalidInput)
		assert.Empty(t, api.saves)
	})

	t.Run("backend rejection keeps prior status", func(t *testing.T) {
		api := newMemoryAPI()
		api.records[models.ProviderFacebook] = models.FacebookCredentials{PageID: "p", AccessToken: "t"}
		m := NewManager(api, signedIn(t), log.New(io.Discard))
		require.True(t, m.Fetch(ctx, models.ProviderFacebook).IsConfigured())

		api.saveErr = errors.New("boom")
		n := m.Save(ctx, models.FacebookCredentials{PageID: "p2", AccessToken: "t2"}, Edit)
		assert.Equal(t, MsgSaveFailed, n.Message)
		assert.ErrorIs(t, n.Err, shared.ErrSaveFailed)

		st := m.Status(models.ProviderFacebook)
		require.True(t, st.IsConfigured())
		assert.Equal(t, "p", st.Record().(models.FacebookCredentials).PageID)
	})

	t.Run("signed out", func(t *testing.T) {
		m := NewManager(newMemoryAPI(), session.NewManager(session.NewMemoryStore()), log.New(io.Discard))
		n := m.Save(ctx, models.InstagramCredentials{AccessToken: "a", IGUserID: "b"}, Setup)
		assert.ErrorIs(t, n.Err, shared.ErrNotAuthenticated)
	})
}

func TestFetchNeverFails(t *testing.T) {
	ctx := context.Background()

	t.Run("api error", func(t *testing.T) {
		api := newMemoryAPI()
		api.getErr = errors.New("network down")
		m := NewManager(api, signedIn(t), log.New(io.Discard))

		for p, st := range m.Refresh(ctx) {
			assert.False(t, st.IsConfigured(), p)
		}
	})

	t.Run("http 404 and bad payloads", func(t *testing.T) {
		backend := tu.NewBackend(t, map[string]tu.Route{
			"GET /api/get-facebook-credentials/u1": {Body: `not json`},
			"GET /api/get-credentials/u1":          {Body: `{"insta_credentials":{"ACCESS_TOKENS":"a"},"facebook_credentials":{"PAGE_ID":"p"}}`},
		})
		m := NewManager(services.NewClient(backend.URL, nil), signedIn(t), log.New(io.Discard))

		statuses := m.Refresh(ctx)
		assert.False(t, statuses[models.ProviderInstagram].IsConfigured(), "404")
		assert.False(t, statuses[models.ProviderFacebook].IsConfigured(), "undecodable")
		assert.True(t, statuses[models.ProviderBoth].IsConfigured())
		assert.Equal(t, 3, len(backend.Requests()))
	})
}

func TestSaveOverHTTP(t *testing.T) {
	backend := tu.NewBackend(t, map[string]tu.Route{
		"POST /api/save-facebook-credentials/": {Status: http.StatusCreated, Body: `{"message":"saved"}`},
		"GET /api/get-facebook-credentials/u1": {Body: `{"user_id":"u1","PAGE_ID":"p","FACEBOOK_ACCESS":"t"}`},
	})
	m := NewManager(services.NewClient(backend.URL, nil), signedIn(t), log.New(io.Discard))

	n := m.Save(context.Background(), models.FacebookCredentials{PageID: "p", AccessToken: "t"}, Setup)
	require.True(t, n.OK(), n.Message)

	reqs := backend.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "u1", reqs[0].Body["user_id"])
	assert.Equal(t, "p", reqs[0].Body["PAGE_ID"])
	assert.Equal(t, http.MethodGet, reqs[1].Method, "save is followed by a re-fetch")
	assert.True(t, m.Status(models.ProviderFacebook).IsConfigured())
}

func TestCachedStatusesFollowTheSessionUser(t *testing.T) {
	ctx := context.Background()
	api := newMemoryAPI()
	api.records[models.ProviderInstagram] = models.InstagramCredentials{UserID: "u1", AccessToken: "ann-secret", IGUserID: "ig1"}
	sessions := signedIn(t)
	m := NewManager(api, sessions, log.New(io.Discard))

	require.True(t, m.Fetch(ctx, models.ProviderInstagram).IsConfigured())

	t.Run("another user signs in", func(t *testing.T) {
		require.NoError(t, sessions.Clear())
		require.NoError(t, sessions.Replace(session.Session{Token: "jwt-2", UserID: "u2", Email: "bob@x.com"}))

		assert.Equal(t, Setup, m.Mode(models.ProviderInstagram))
		form := m.Form(models.ProviderInstagram).(models.InstagramCredentials)
		assert.Equal(t, models.InstagramCredentials{UserID: "u2"}, form)
	})

	t.Run("reset drops the cache", func(t *testing.T) {
		require.NoError(t, sessions.Replace(session.Session{Token: "jwt", UserID: "u1", Email: "ann@x.com"}))
		require.True(t, m.Fetch(ctx, models.ProviderInstagram).IsConfigured())

		m.Reset()
		assert.False(t, m.Status(models.ProviderInstagram).IsConfigured())
	})

	t.Run("signed out", func(t *testing.T) {
		require.True(t, m.Fetch(ctx, models.ProviderInstagram).IsConfigured())
		require.NoError(t, sessions.Clear())
		assert.False(t, m.Status(models.ProviderInstagram).IsConfigured())
	})
}
