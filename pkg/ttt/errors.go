package ttt

import "github.com/pkg/errors"

var (
	// Move on an occupied or off-board cell, or after the game has finished
	ErrInvalidMove = errors.New("invalid move")

	// Fingerprint that does not decode to a board
	ErrMalformedFingerprint = errors.New("malformed fingerprint")
)
