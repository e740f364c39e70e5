// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a record addressed to someone else, while
// ErrAlreadyProcessed signals that a moderation transition was
// attempted on a submission that has already left the pending state.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a record they are not party to, such as answering a
// collaboration request addressed to another user. Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyProcessed is returned when approve or reject is called on a
// submission whose status is no longer pending. Both moderation outcomes
// are terminal, so handlers translate this into an HTTP 400 response.
var ErrAlreadyProcessed = errors.New("already processed")

// ErrEmailExists is returned by UserRepo.Create when the email address
// is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateRequest is returned when a collaboration request already
// exists for the same (requester, recipient, category) tuple. Handlers
// should translate this into an HTTP 409 response.
var ErrDuplicateRequest = errors.New("duplicate request")
