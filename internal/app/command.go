package app

import (
	"errors"

	"go.uber.org/zap"
)

var (
	ErrUnknownCommand = errors.New("app: unknown command")
	ErrUnknownField   = errors.New("app: unknown field")
)

type CommandKind int

const (
	CmdSimulate CommandKind = iota
	CmdToggleReference
	CmdToggleOutput
	CmdToggleError
	CmdToggleFeedback
	CmdSetField
	CmdFocus
	CmdReset
)

type Command struct {
	Kind  CommandKind
	Field Field
	Value string
}

func Simulate() Command { return Command{Kind: CmdSimulate} }

func Reset() Command { return Command{Kind: CmdReset} }

func SetField(f Field, value string) Command {
	return Command{Kind: CmdSetField, Field: f, Value: value}
}

func Focus(f Field) Command {
	return Command{Kind: CmdFocus, Field: f}
}

// Renderer turns the state into a frame. It must not modify the state.
type Renderer interface {
	Render(s *State) string
}

// Dispatch runs one update-then-render cycle. When the update fails on the
// form contents the whole cycle is skipped: ok is false and the caller
// keeps showing its previous frame.
func Dispatch(s *State, cmd Command, r Renderer) (frame string, ok bool) {
	if err := s.Update(cmd); err != nil {
		if !IsInputError(err) {
			s.logger.Warn("command failed", zap.Error(err))
		}
		return "", false
	}
	return r.Render(s), true
}
