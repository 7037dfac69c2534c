package models

import (
	"fmt"
	"strings"

	"github.com/amsavalli07/socialsync/internal/shared"
)

// Platform identifies a network a post can be dispatched to.
type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
)

// AllPlatforms lists every post target in display order.
func AllPlatforms() []Platform {
	return []Platform{Instagram, Facebook, Twitter, LinkedIn}
}

// ParsePlatform resolves a case-insensitive platform id.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Instagram, Facebook, Twitter, LinkedIn:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownPlatform, s)
}

// Label returns the display name of the platform.
func (p Platform) Label() string {
	switch p {
	case Instagram:
		return "Instagram"
	case Facebook:
		return "Facebook"
	case Twitter:
		return "Twitter"
	case LinkedIn:
		return "LinkedIn"
	}
	return string(p)
}

// Provider identifies a credential record kind. [ProviderBoth] bundles Instagram and Facebook.
type Provider string

const (
	ProviderInstagram Provider = "instagram"
	ProviderFacebook  Provider = "facebook"
	ProviderBoth      Provider = "both"
)

// AllProviders lists the credential kinds in display order.
func AllProviders() []Provider {
	return []Provider{ProviderInstagram, ProviderFacebook, ProviderBoth}
}

// ParseProvider resolves a case-insensitive provider id.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderInstagram, ProviderFacebook, ProviderBoth:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownPlatform, s)
}

// Label returns the name used in notices, e.g. "Both platform credentials saved successfully!".
func (p Provider) Label() string {
	switch p {
	case ProviderInstagram:
		return "Instagram"
	case ProviderFacebook:
		return "Facebook"
	case ProviderBoth:
		return "Both platform"
	}
	return string(p)
}
