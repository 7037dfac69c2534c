package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/amsavalli07/socialsync/internal/credentials"
	"github.com/amsavalli07/socialsync/internal/models"
)

var (
	_ list.Item = menuItem{}
	_ list.Item = providerItem{}
)

// menuItem is one dashboard destination.
type menuItem struct {
	title string
	desc  string
	view  ViewState
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

// menuItems lists the dashboard destinations. Logout is handled as [LogoutAction].
func menuItems() []list.Item {
	return []list.Item{
		menuItem{"Dashboard", "Profile and platform overview", DashboardView},
		menuItem{"Post to Platforms", "Upload an image with a caption", PostView},
		menuItem{"Social Media Manager", "Set up or edit platform credentials", CredentialsView},
		menuItem{"Account", "Change or reset your password", AccountView},
		menuItem{"Logout", "Sign out and clear the session", LogoutAction},
	}
}

// providerItem wraps a credential provider and its status to implement [list.Item].
type providerItem struct {
	provider models.Provider
	status   credentials.Status
}

func (i providerItem) FilterValue() string { return string(i.provider) }
func (i providerItem) Title() string       { return i.provider.Label() }
func (i providerItem) Description() string {
	if i.status.IsConfigured() {
		return "configured • enter to edit"
	}
	return "not configured • enter to set up"
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
