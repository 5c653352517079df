// Package verifier checks zero-knowledge score proofs submitted by players.
// The rest of the service treats it as opaque: a payload goes in, a proof
// identifier and a score (or the invalid sentinel) come out.
package verifier

import (
	"context"
	"errors"
)

// InvalidScore is the sentinel returned when a proof fails verification.
const InvalidScore int64 = -1

// SupportedCurve is the only curve accepted in proof envelopes.
const SupportedCurve = "bn254"

var (
	// ErrMalformedPayload signals an envelope that could not be decoded.
	ErrMalformedPayload = errors.New("verifier: malformed proof payload")

	// ErrUnsupportedCurve signals an envelope for a curve this verifier
	// does not carry a verifying key for.
	ErrUnsupportedCurve = errors.New("verifier: unsupported curve")
)

// Envelope is the wire format of a proof submission.
type Envelope struct {
	Curve  string       `json:"curve" validate:"required"`
	Proof  string       `json:"proof" validate:"required,base64"`
	Public PublicInputs `json:"public" validate:"required"`
}

// PublicInputs carries the public witness values of the score circuit.
type PublicInputs struct {
	Score     int64  `json:"score" validate:"required,gt=0"`
	BoardHash string `json:"board_hash" validate:"required"`
}

// Result is what a successful verification call yields. Score is
// InvalidScore when the pairing check failed.
type Result struct {
	ProofID string
	Score   int64
}

// Verifier validates an opaque proof payload.
type Verifier interface {
	Verify(ctx context.Context, payload []byte) (*Result, error)
}
