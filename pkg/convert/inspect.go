/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package convert

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/pem"

	"github.com/hyperledger/aries-keyutil-go/pkg/pbe"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

// Info describes a DER or PEM key without decrypting it. Encryption is only set for encrypted containers, whose
// key algorithm fields stay empty.
type Info struct {
	Format     Format       `json:"format"`
	Type       KeyType      `json:"type"`
	Encrypted  bool         `json:"encrypted"`
	Encryption *pbe.Options `json:"encryption,omitempty"`
	Kty        string       `json:"kty,omitempty"`
	Curve      string       `json:"crv,omitempty"`
	Bits       int          `json:"bits,omitempty"`
}

// Inspect describes a PEM or DER encoded key. Encrypted containers are reported with their encryption parameters.
func Inspect(data []byte) (*Info, error) {
	if block, _ := pem.Decode(data); block != nil {
		der, _, err := DecodePEM(data)
		if err != nil {
			return nil, err
		}

		info, err := InspectDER(der)
		if err != nil {
			return nil, err
		}

		info.Format = PEM

		return info, nil
	}

	return InspectDER(data)
}

// InspectDER describes a DER encoded key.
func InspectDER(der []byte) (*Info, error) {
	if IsEncrypted(der) {
		params, err := pbe.Parameters(der)
		if err != nil {
			return nil, err
		}

		return &Info{Format: DER, Type: Private, Encrypted: true, Encryption: params}, nil
	}

	k, t, err := parseDER(der)
	if err != nil {
		return nil, err
	}

	info := &Info{Format: DER, Type: t}

	switch k := k.(type) {
	case *rsa.PublicKey:
		info.Kty, info.Bits = "RSA", k.N.BitLen()
	case *rsa.PrivateKey:
		info.Kty, info.Bits = "RSA", k.N.BitLen()
	case *ecdsa.PublicKey:
		info.Kty, info.Curve = "EC", curveName(k)
	case *ecdsa.PrivateKey:
		info.Kty, info.Curve = "EC", curveName(&k.PublicKey)
	}

	return info, nil
}

func curveName(pub *ecdsa.PublicKey) string {
	if c, ok := registry.CurveFor(pub.Curve); ok {
		return c.Name
	}

	return pub.Curve.Params().Name
}
