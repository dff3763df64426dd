// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package verifier provides transition verifiers: components that confirm a
// rollup state transition between two publication checkpoints.
package verifier

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/rollup"
)

var (
	ErrInvalidProof   = errors.New("invalid proof")
	ErrUnknownSigner  = errors.New("proof signed by unknown attester")
	errSignatureShape = errors.Errorf("proof must be a %d byte signature", crypto.SignatureLength)
)

// Func adapts an ordinary function to a transition verifier.
type Func func(startPubHash, endPubHash, startCommitment, endCommitment rollup.Bytes32, proof []byte) error

func (f Func) Verify(startPubHash, endPubHash, startCommitment, endCommitment rollup.Bytes32, proof []byte) error {
	return f(startPubHash, endPubHash, startCommitment, endCommitment, proof)
}

// Digest is the message an attester signs for a transition.
func Digest(startPubHash, endPubHash, startCommitment, endCommitment rollup.Bytes32) rollup.Bytes32 {
	return rollup.Keccak256(
		startPubHash.Bytes(),
		endPubHash.Bytes(),
		startCommitment.Bytes(),
		endCommitment.Bytes(),
	)
}

// Sign produces an attestation proof accepted by Signed.
func Sign(key *ecdsa.PrivateKey, startPubHash, endPubHash, startCommitment, endCommitment rollup.Bytes32) ([]byte, error) {
	digest := Digest(startPubHash, endPubHash, startCommitment, endCommitment)
	return crypto.Sign(digest.Bytes(), key)
}

// Signed accepts a transition when the proof is a secp256k1 signature of the
// transition digest by one of the trusted attesters.
type Signed struct {
	attesters map[rollup.Address]struct{}
}

func NewSigned(attesters ...rollup.Address) *Signed {
	s := &Signed{attesters: make(map[rollup.Address]struct{}, len(attesters))}
	for _, a := range attesters {
		s.attesters[a] = struct{}{}
	}
	return s
}

func (s *Signed) Verify(startPubHash, endPubHash, startCommitment, endCommitment rollup.Bytes32, proof []byte) error {
	if len(proof) != crypto.SignatureLength {
		return errSignatureShape
	}
	digest := Digest(startPubHash, endPubHash, startCommitment, endCommitment)
	pub, err := crypto.SigToPub(digest.Bytes(), proof)
	if err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}
	signer := rollup.Address(crypto.PubkeyToAddress(*pub))
	if _, ok := s.attesters[signer]; !ok {
		return errors.Wrapf(ErrUnknownSigner, "signer %v", signer)
	}
	return nil
}
