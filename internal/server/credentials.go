package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/repositories"
)

const (
	DetailCredentialsNotFound = "Credentials not found"
	DetailCredentialsExist    = "Credentials already exist, use the edit endpoint"
)

// CredentialHandler stores one credential record per user and provider.
type CredentialHandler struct {
	accounts    *repositories.AccountRepository
	credentials *repositories.CredentialRepository
	logger      *log.Logger
}

// Routes implements [Handler].
func (h *CredentialHandler) Routes() []Route {
	paths := []struct {
		provider        models.Provider
		get, save, edit string
	}{
		{models.ProviderInstagram, "/api/get-instagram-credentials/{user_id}", "/api/save-instagram-credentials/", "/api/edit-instagram-credentials/"},
		{models.ProviderFacebook, "/api/get-facebook-credentials/{user_id}", "/api/save-facebook-credentials/", "/api/edit-facebook-credentials/"},
		{models.ProviderBoth, "/api/get-credentials/{user_id}", "/api/save-credentials/", "/api/update-credentials/"},
	}

	var routes []Route
	for _, p := range paths {
		routes = append(routes,
			Route{http.MethodGet, p.get, h.get(p.provider)},
			Route{http.MethodPost, p.save, h.store(p.provider, false)},
			Route{http.MethodPut, p.edit, h.store(p.provider, true)},
		)
	}
	return routes
}

func (h *CredentialHandler) get(p models.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.credentials.Get(r.PathValue("user_id"), p)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, DetailCredentialsNotFound)
				return
			}
			h.internal(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}

// decodeCredentials reads a body into the record type of p.
func decodeCredentials(w http.ResponseWriter, r *http.Request, p models.Provider) (models.Credentials, string, bool) {
	switch p {
	case models.ProviderInstagram:
		var c models.InstagramCredentials
		ok := decodeBody(w, r, &c)
		return c, c.UserID, ok
	case models.ProviderFacebook:
		var c models.FacebookCredentials
		ok := decodeBody(w, r, &c)
		return c, c.UserID, ok
	default:
		var c models.BothCredentials
		ok := decodeBody(w, r, &c)
		return c, c.UserID, ok
	}
}

// store creates (replace=false) or overwrites (replace=true) the record of p.
func (h *CredentialHandler) store(p models.Provider, replace bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, userID, ok := decodeCredentials(w, r, p)
		if !ok {
			return
		}
		if err := cred.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if _, err := h.accounts.Get(userID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, DetailUserNotFound)
				return
			}
			h.internal(w, err)
			return
		}

		payload, err := json.Marshal(cred)
		if err != nil {
			h.internal(w, err)
			return
		}

		if replace {
			err = h.credentials.Replace(userID, p, payload)
		} else {
			err = h.credentials.Create(userID, p, payload)
		}
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			writeDetail(w, http.StatusNotFound, DetailCredentialsNotFound)
			return
		case errors.Is(err, repositories.ErrDuplicate):
			writeDetail(w, http.StatusConflict, DetailCredentialsExist)
			return
		case err != nil:
			h.internal(w, err)
			return
		}

		h.logger.Info("credentials stored", "provider", p, "user_id", userID, "replace", replace)
		if replace {
			writeMessage(w, http.StatusOK, p.Label()+" credentials updated")
			return
		}
		writeMessage(w, http.StatusCreated, p.Label()+" credentials saved")
	}
}

func (h *CredentialHandler) internal(w http.ResponseWriter, err error) {
	h.logger.Error("credential handler failed", "error", err)
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
