// Package services defines the business logic for chat resolution and intent
// administration. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrEmptyMessage is returned when a chat request contains a message
	// that is empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when a chat message exceeds the
	// configured maximum length.
	ErrMessageTooLong = errors.New("message too long")

	// ErrEmptyKeyword is returned by intent upsert when the keyword
	// normalizes to empty text.
	ErrEmptyKeyword = errors.New("keyword is empty")

	// ErrEmptyResponse is returned by intent upsert when the response
	// trims to empty text.
	ErrEmptyResponse = errors.New("response is empty")

	// ErrIntentNotFound indicates that the requested intent does not exist.
	ErrIntentNotFound = errors.New("intent not found")
)
