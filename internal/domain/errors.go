package domain

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrNameTaken        = errors.New("username already taken")
	ErrInvalidPollInput = errors.New("poll needs a question and exactly two options")
	ErrPollActive       = errors.New("a poll is already active")
)
