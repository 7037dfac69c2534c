package models

import (
	"fmt"
	"strings"

	"github.com/amsavalli07/socialsync/internal/shared"
)

// Credentials is a publishing credential record for one [Provider].
type Credentials interface {
	Provider() Provider
	// Configured reports whether the record carries a usable payload.
	Configured() bool
	// Validate reports the first empty required field.
	Validate() error
	// Owned returns a copy with every user id set to userID.
	Owned(userID string) Credentials
}

// InstagramCredentials is the Instagram Graph API token pair.
type InstagramCredentials struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"ACCESS_TOKENS"`
	IGUserID    string `json:"IG_USER_ID"`
}

func (c InstagramCredentials) Provider() Provider { return ProviderInstagram }

func (c InstagramCredentials) Configured() bool { return c.AccessToken != "" }

func (c InstagramCredentials) Validate() error {
	return required(map[string]string{
		"access token": c.AccessToken,
		"IG user id":   c.IGUserID,
	}, "access token", "IG user id")
}

func (c InstagramCredentials) Owned(userID string) Credentials {
	c.UserID = userID
	return c
}

// FacebookCredentials is a page id and its page access token.
type FacebookCredentials struct {
	UserID      string `json:"user_id"`
	PageID      string `json:"PAGE_ID"`
	AccessToken string `json:"FACEBOOK_ACCESS"`
}

func (c FacebookCredentials) Provider() Provider { return ProviderFacebook }

func (c FacebookCredentials) Configured() bool { return c.PageID != "" }

func (c FacebookCredentials) Validate() error {
	return required(map[string]string{
		"page id":      c.PageID,
		"access token": c.AccessToken,
	}, "page id", "access token")
}

func (c FacebookCredentials) Owned(userID string) Credentials {
	c.UserID = userID
	return c
}

// BothCredentials submits Instagram and Facebook records as one request.
type BothCredentials struct {
	UserID    string                `json:"user_id"`
	Instagram *InstagramCredentials `json:"insta_credentials"`
	Facebook  *FacebookCredentials  `json:"facebook_credentials"`
}

func (c BothCredentials) Provider() Provider { return ProviderBoth }

func (c BothCredentials) Configured() bool { return c.Instagram != nil && c.Facebook != nil }

func (c BothCredentials) Validate() error {
	if c.Instagram == nil || c.Facebook == nil {
		return fmt.Errorf("%w: both instagram and facebook credentials are required", shared.ErrMissingArgument)
	}
	if err := c.Instagram.Validate(); err != nil {
		return fmt.Errorf("instagram: %w", err)
	}
	if err := c.Facebook.Validate(); err != nil {
		return fmt.Errorf("facebook: %w", err)
	}
	return nil
}

func (c BothCredentials) Owned(userID string) Credentials {
	c.UserID = userID
	if c.Instagram != nil {
		ig := *c.Instagram
		ig.UserID = userID
		c.Instagram = &ig
	}
	if c.Facebook != nil {
		fb := *c.Facebook
		fb.UserID = userID
		c.Facebook = &fb
	}
	return c
}

// BlankCredentials returns an empty record for p owned by userID.
// The Both variant carries empty sub-records so forms have fields to fill.
func BlankCredentials(p Provider, userID string) Credentials {
	switch p {
	case ProviderInstagram:
		return InstagramCredentials{UserID: userID}
	case ProviderFacebook:
		return FacebookCredentials{UserID: userID}
	default:
		return BothCredentials{
			UserID:    userID,
			Instagram: &InstagramCredentials{UserID: userID},
			Facebook:  &FacebookCredentials{UserID: userID},
		}
	}
}

func required(fields map[string]string, order ...string) error {
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			return fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
		}
	}
	return nil
}
