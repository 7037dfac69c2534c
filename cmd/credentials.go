package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/credentials"
	"github.com/amsavalli07/socialsync/internal/formatter"
	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// signedInManager returns a credential manager after checking that a session exists.
func (r *Runner) signedInManager() (*credentials.Manager, error) {
	mgr, err := r.credentialManager()
	if err != nil {
		return nil, err
	}
	if !r.sessions.Authenticated() {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, credentials.MsgNotSignedIn)
	}
	return mgr, nil
}

// CredentialsStatus fetches every provider and prints which are configured.
func (r *Runner) CredentialsStatus(ctx context.Context, cmd *cli.Command) error {
	mgr, err := r.signedInManager()
	if err != nil {
		return err
	}

	statuses := mgr.Refresh(ctx)

	if cmd.Bool("json") {
		out := make(map[models.Provider]bool, len(statuses))
		for p, st := range statuses {
			out[p] = st.IsConfigured()
		}
		return r.writeJSON(out, true)
	}

	rows := make([]formatter.StatusRow, 0, len(statuses))
	for _, p := range models.AllProviders() {
		st := statuses[p]
		rows = append(rows, formatter.StatusRow{
			Provider:   p,
			Configured: st.IsConfigured(),
			Detail:     fmt.Sprintf("'credentials set %s' will %s", p, modeVerb(st.Mode())),
		})
	}
	return r.writePlain("%s\n", formatter.StatusTable(rows))
}

func modeVerb(m credentials.Mode) string {
	if m == credentials.Edit {
		return "update"
	}
	return "create"
}

// CredentialsShow prints the stored record of a provider as JSON.
func (r *Runner) CredentialsShow(ctx context.Context, cmd *cli.Command) error {
	p, err := models.ParseProvider(cmd.StringArg("provider"))
	if err != nil {
		return err
	}
	mgr, err := r.signedInManager()
	if err != nil {
		return err
	}

	st := mgr.Fetch(ctx, p)
	if !st.IsConfigured() {
		return r.writePlain("✗ %s credentials not configured\n", p.Label())
	}
	return r.writeJSON(st.Record(), true)
}

// CredentialsSet creates the record of a provider, or replaces it when one is stored.
//
// Fields not given as flags keep their stored value, or are prompted for when there is none.
func (r *Runner) CredentialsSet(ctx context.Context, cmd *cli.Command) error {
	p, err := models.ParseProvider(cmd.StringArg("provider"))
	if err != nil {
		return err
	}
	mgr, err := r.signedInManager()
	if err != nil {
		return err
	}

	mode := mgr.Fetch(ctx, p).Mode()
	r.logger.Debug("saving credentials", "provider", p, "mode", mode)

	var rec models.Credentials
	switch form := mgr.Form(p).(type) {
	case models.InstagramCredentials:
		if err := r.fillInstagram(cmd, &form); err != nil {
			return err
		}
		rec = form
	case models.FacebookCredentials:
		if err := r.fillFacebook(cmd, &form); err != nil {
			return err
		}
		rec = form
	case models.BothCredentials:
		ig, fb := models.InstagramCredentials{}, models.FacebookCredentials{}
		if form.Instagram != nil {
			ig = *form.Instagram
		}
		if form.Facebook != nil {
			fb = *form.Facebook
		}
		if err := r.fillInstagram(cmd, &ig); err != nil {
			return err
		}
		if err := r.fillFacebook(cmd, &fb); err != nil {
			return err
		}
		form.Instagram, form.Facebook = &ig, &fb
		rec = form
	}

	return r.settle(mgr.Save(ctx, rec, mode))
}

func (r *Runner) fillInstagram(cmd *cli.Command, c *models.InstagramCredentials) (err error) {
	if c.AccessToken, err = r.field(cmd, "access-token", "Instagram access token", c.AccessToken); err != nil {
		return err
	}
	c.IGUserID, err = r.field(cmd, "ig-user-id", "Instagram user id", c.IGUserID)
	return err
}

func (r *Runner) fillFacebook(cmd *cli.Command, c *models.FacebookCredentials) (err error) {
	if c.PageID, err = r.field(cmd, "page-id", "Facebook page id", c.PageID); err != nil {
		return err
	}
	c.AccessToken, err = r.field(cmd, "facebook-access", "Facebook access token", c.AccessToken)
	return err
}

// field returns the flag value, then the current value, then prompts.
func (r *Runner) field(cmd *cli.Command, flag, label, current string) (string, error) {
	if v := cmd.String(flag); v != "" {
		return v, nil
	}
	if current != "" {
		return current, nil
	}
	return r.prompt(label)
}
