package verifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/turbo-ing/2048-scoreproof/pkg/metrics"
)

var validate = validator.New()

// Groth16Verifier verifies BN254 Groth16 proofs for the score circuit
// against a verifying key loaded at construction time.
type Groth16Verifier struct {
	logger *zap.Logger
	vk     groth16.VerifyingKey
}

// NewGroth16Verifier loads the verifying key from vkPath.
func NewGroth16Verifier(logger *zap.Logger, vkPath string) (*Groth16Verifier, error) {
	f, err := os.Open(vkPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open verifying key: %w", err)
	}
	defer f.Close()

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read verifying key: %w", err)
	}

	return &Groth16Verifier{logger: logger, vk: vk}, nil
}

// Verify decodes the envelope, rebuilds the public witness and runs the
// Groth16 pairing check. A failed check is not an error: it yields a
// Result carrying InvalidScore so the caller can reject the submission.
func (v *Groth16Verifier) Verify(ctx context.Context, payload []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := validate.Struct(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Curve != SupportedCurve {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCurve, env.Curve)
	}

	raw, err := base64.StdEncoding.DecodeString(env.Proof)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	boardHash, err := parseFieldElement(env.Public.BoardHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	assignment := &Game2048Circuit{
		Score:     env.Public.Score,
		BoardHash: boardHash,
	}
	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	proofID := proofDigest(raw, env.Public.Score, boardHash)

	timer := prometheus.NewTimer(metrics.VerifyLatency)
	err = groth16.Verify(proof, v.vk, publicWitness)
	timer.ObserveDuration()
	if err != nil {
		v.logger.Debug("proof failed pairing check",
			zap.String("proof_id", proofID),
			zap.Int64("claimed_score", env.Public.Score),
			zap.Error(err))
		return &Result{ProofID: proofID, Score: InvalidScore}, nil
	}

	return &Result{ProofID: proofID, Score: env.Public.Score}, nil
}

// parseFieldElement accepts a decimal or 0x-prefixed hex string and checks
// it is a canonical BN254 scalar.
func parseFieldElement(s string) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("not a valid field element: %q", s)
	}
	if n.Sign() < 0 || n.Cmp(ecc.BN254.ScalarField()) >= 0 {
		return nil, fmt.Errorf("field element out of range: %q", s)
	}
	return n, nil
}

// proofDigest derives the deduplication token: SHA-256 over the proof bytes
// and the public inputs, hex encoded. Two submissions of the same proof for
// the same claim always collide here.
func proofDigest(raw []byte, score int64, boardHash *big.Int) string {
	h := sha256.New()
	h.Write(raw)
	var scoreBytes [8]byte
	binary.BigEndian.PutUint64(scoreBytes[:], uint64(score))
	h.Write(scoreBytes[:])
	h.Write(boardHash.Bytes())
	return hex.EncodeToString(h.Sum(nil))
}
