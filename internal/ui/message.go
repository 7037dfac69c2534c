package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amsavalli07/socialsync/internal/credentials"
	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/notify"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSettled MsgKind = iota
	MsgBoardChanged
	MsgStatusesLoaded
	MsgDraftCleared
)

// Op names the workflow action a [MsgSettled] reports on.
type Op int

const (
	OpAuth Op = iota
	OpSaveCredentials
	OpPost
	OpAccount
	OpAttach
)

type settled struct {
	op     Op
	notice notify.Notice
}

// settledMsg is the constructor for [MsgSettled]
func settledMsg(op Op, n notify.Notice) Msg {
	return Msg{kind: MsgSettled, data: settled{op: op, notice: n}}
}

// boardChangedMsg is the constructor for [MsgBoardChanged]
func boardChangedMsg() Msg {
	return Msg{kind: MsgBoardChanged}
}

// statusesLoadedMsg is the constructor for [MsgStatusesLoaded]
func statusesLoadedMsg(statuses map[models.Provider]credentials.Status) Msg {
	return Msg{kind: MsgStatusesLoaded, data: statuses}
}

// draftClearedMsg is the constructor for [MsgDraftCleared]
func draftClearedMsg() Msg {
	return Msg{kind: MsgDraftCleared}
}
