// Copyright 2025 Certen Protocol

package verifier

import "errors"

var (
	// ErrNoChainSource is returned when neither an RPC collaborator nor
	// an explorer URL is configured for a chain a verify call needs.
	ErrNoChainSource = errors.New("verifier: no RPC or explorer source configured for this chain")

	// ErrNoCalendar is returned verifying a Pending attestation without
	// a configured calendar client.
	ErrNoCalendar = errors.New("verifier: no calendar client configured")
)
