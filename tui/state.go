// Package tui provides the primary terminal user interface implementation.
package tui

type state int

const (
	inputState state = iota
	loadingState
	playingState
	errorState
)
