// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// Until the session holds a token the TUI renders the auth flow, one form per state
// (sign in, sign up, forgot password, one-time code, new password). Afterwards it shows
// the dashboard menu:
//  1. [DashboardView] : Profile fields and a platform overview
//  2. [PostView] : Attach an image, write a caption and pick platforms
//  3. [CredentialsView] : Set up or edit Instagram, Facebook or combined credentials
//  4. [AccountView] : Change or reset the password
//
// Blocking workflow calls run as bubbletea commands and report back through the Msg union type.
// Notices are shown on a shared [notify.Board]; its change callback wakes the program so
// auto-dismissed toasts disappear without a key press.
//
// Form views take text input, so actions use ctrl chords (ctrl+s submit, ctrl+t theme) with contextual
// help displayed via charmbracelet/bubbles/help. The theme is persisted in the session store.
package ui
