/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package convert

import (
	"encoding/pem"

	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
)

// PEM labels.
const (
	LabelPublicKey           = "PUBLIC KEY"
	LabelPrivateKey          = "PRIVATE KEY"
	LabelEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	LabelRSAPrivateKey       = "RSA PRIVATE KEY"
	LabelRSAPublicKey        = "RSA PUBLIC KEY"
	LabelECPrivateKey        = "EC PRIVATE KEY"
)

// DecodePEM returns the DER content and label of the first key block in data.
func DecodePEM(data []byte) ([]byte, string, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, "", keyerr.New(keyerr.InvalidKeyData, "no PEM block")
	}

	switch block.Type {
	case LabelPublicKey, LabelPrivateKey, LabelEncryptedPrivateKey, LabelRSAPrivateKey, LabelRSAPublicKey,
		LabelECPrivateKey:
	default:
		return nil, "", keyerr.New(keyerr.UnsupportedFormat, "PEM "+block.Type)
	}

	if _, ok := block.Headers["DEK-Info"]; ok {
		return nil, "", keyerr.New(keyerr.UnsupportedEncryptionAlgorithm, "legacy PEM encryption")
	}

	return block.Bytes, block.Type, nil
}

// EncodePEM wraps der in a PEM block with the given label.
func EncodePEM(label string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: label, Bytes: der})
}

// LabelFor returns the PEM label for a key of type t.
func LabelFor(t KeyType, encrypted bool) string {
	switch {
	case encrypted:
		return LabelEncryptedPrivateKey
	case t == Public:
		return LabelPublicKey
	default:
		return LabelPrivateKey
	}
}
