package services

import "errors"

var (
	// ErrNotFound covers both a missing record and a record owned by a
	// different shop; callers cannot tell them apart.
	ErrNotFound = errors.New("record not found")

	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidMethod = errors.New("invalid payment method")

	// ErrPaymentAlreadySettled rejects method changes on paid payments.
	ErrPaymentAlreadySettled = errors.New("payment method cannot be changed after settlement")
)
