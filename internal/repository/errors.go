package repository

import "errors"

// Repository errors. Services translate them into the API error taxonomy.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrActiveSessionExists = errors.New("another session is already active")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrAlreadyEnrolled     = errors.New("roll number already enrolled")
	ErrTerminalStatus      = errors.New("enrollment already in a terminal status")
)
