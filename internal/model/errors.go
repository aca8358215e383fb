package model

import "errors"

var (
	// Auth errors. Login failures never reveal whether the employee id or the
	// password was wrong; refresh failures collapse every cause into one kind.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")

	// Token store errors
	ErrTokenNotFound = errors.New("refresh token record not found")

	// Worker related errors
	ErrWorkerNotFound  = errors.New("worker not found")
	ErrEmployeeIDTaken = errors.New("employee id already exists")

	// Program related errors
	ErrProgramNotFound = errors.New("program not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
