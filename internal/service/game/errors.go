package game

import "errors"

// Sentinel errors for the game service layer.
var (
	ErrNotFound      = errors.New("video game not found")
	ErrOwnerNotFound = errors.New("owner user not found")
	ErrNotOwner      = errors.New("only the owner can modify this game")
)
