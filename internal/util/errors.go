package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAddressNotFound  = errors.New("address not found")
	ErrNotParticipating = errors.New("not participating in this event")
	ErrEmptyWorkbook    = errors.New("workbook contains no reference data")
	ErrDraftNotFound    = errors.New("no conversation draft for this session")
)
