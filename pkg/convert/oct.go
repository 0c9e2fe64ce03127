/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package convert

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"math/big"

	"github.com/go-jose/go-jose/v3"
	"github.com/multiformats/go-multibase"

	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

// OctOutput selects how oct key bytes are rendered.
type OctOutput string

// Oct sub-formats.
const (
	OctBinary    OctOutput = "binary"
	OctHex       OctOutput = "hex"
	OctMultibase OctOutput = "multibase"
)

const (
	pointUncompressed   = 0x04
	pointCompressedEven = 0x02
	pointCompressedOdd  = 0x03
)

// EncodeOct renders raw oct bytes in the given sub-format. Multibase output uses base58btc.
func EncodeOct(raw []byte, out OctOutput) ([]byte, error) {
	switch out {
	case "", OctBinary:
		return raw, nil
	case OctHex:
		return []byte(hex.EncodeToString(raw)), nil
	case OctMultibase:
		s, err := multibase.Encode(multibase.Base58BTC, raw)
		if err != nil {
			return nil, keyerr.Wrap(keyerr.InvalidParameter, "multibase", err)
		}

		return []byte(s), nil
	default:
		return nil, keyerr.New(keyerr.UnsupportedFormat, "oct output "+string(out))
	}
}

// DecodeOct reverses EncodeOct. Multibase input may use any multibase encoding.
func DecodeOct(data []byte, in OctOutput) ([]byte, error) {
	switch in {
	case "", OctBinary:
		return data, nil
	case OctHex:
		raw, err := hex.DecodeString(string(data))
		if err != nil {
			return nil, keyerr.Wrap(keyerr.InvalidKeyData, "hex", err)
		}

		return raw, nil
	case OctMultibase:
		_, raw, err := multibase.Decode(string(data))
		if err != nil {
			return nil, keyerr.Wrap(keyerr.InvalidKeyData, "multibase", err)
		}

		return raw, nil
	default:
		return nil, keyerr.New(keyerr.UnsupportedFormat, "oct input "+string(in))
	}
}

// OctKeyType validates raw as a SEC1 private scalar or public point on the named curve and returns its role.
func OctKeyType(raw []byte, curveName string) (KeyType, error) {
	jwk, err := octToJWK(raw, curveName)
	if err != nil {
		return "", err
	}

	return TypeOf(jwk), nil
}

func octToJWK(raw []byte, curveName string) (*jose.JSONWebKey, error) {
	if curveName == "" {
		return nil, keyerr.New(keyerr.NamedCurveRequired, "")
	}

	curve, ok := registry.LookupCurve(curveName)
	if !ok {
		return nil, keyerr.New(keyerr.UnsupportedType, "curve "+curveName)
	}

	if len(raw) == curve.Size {
		priv, err := privateFromScalar(curve, raw)
		if err != nil {
			return nil, err
		}

		return &jose.JSONWebKey{Key: priv}, nil
	}

	pub, err := decodePoint(curve, raw)
	if err != nil {
		return nil, err
	}

	return &jose.JSONWebKey{Key: pub}, nil
}

func ecdhCurve(name string) ecdh.Curve {
	switch name {
	case registry.P384:
		return ecdh.P384()
	case registry.P521:
		return ecdh.P521()
	default:
		return ecdh.P256()
	}
}

func privateFromScalar(curve registry.Curve, d []byte) (*ecdsa.PrivateKey, error) {
	k, err := ecdhCurve(curve.Name).NewPrivateKey(d)
	if err != nil {
		return nil, keyerr.Wrap(keyerr.InvalidKeyData, curve.Name+" private scalar", err)
	}

	pub, err := decodePoint(curve, k.PublicKey().Bytes())
	if err != nil {
		return nil, err
	}

	return &ecdsa.PrivateKey{PublicKey: *pub, D: new(big.Int).SetBytes(d)}, nil
}

// decodePoint parses an uncompressed or compressed SEC1 point and checks that it is on the curve.
func decodePoint(curve registry.Curve, p []byte) (*ecdsa.PublicKey, error) {
	var x, y *big.Int

	switch {
	case len(p) == 1+2*curve.Size && p[0] == pointUncompressed:
		if _, err := ecdhCurve(curve.Name).NewPublicKey(p); err != nil {
			return nil, keyerr.Wrap(keyerr.InvalidKeyData, curve.Name+" point", err)
		}

		x = new(big.Int).SetBytes(p[1 : 1+curve.Size])
		y = new(big.Int).SetBytes(p[1+curve.Size:])
	case len(p) == 1+curve.Size && (p[0] == pointCompressedEven || p[0] == pointCompressedOdd):
		if x, y = elliptic.UnmarshalCompressed(curve.Curve, p); x == nil {
			return nil, keyerr.New(keyerr.InvalidKeyData, curve.Name+" compressed point")
		}
	default:
		return nil, keyerr.Newf(keyerr.InvalidKeyData, "%d bytes for a %s key", len(p), curve.Name)
	}

	return &ecdsa.PublicKey{Curve: curve.Curve, X: x, Y: y}, nil
}

func jwkToOct(jwk *jose.JSONWebKey, compact bool, out OctOutput) ([]byte, error) {
	if err := CheckJWK(jwk); err != nil {
		return nil, err
	}

	var raw []byte

	switch k := jwk.Key.(type) {
	case *ecdsa.PrivateKey:
		curve, _ := registry.CurveFor(k.Curve)

		raw = k.D.FillBytes(make([]byte, curve.Size))
	case *ecdsa.PublicKey:
		raw = encodePoint(k, compact)
	default:
		return nil, keyerr.New(keyerr.UnsupportedType, "oct format requires an EC key")
	}

	return EncodeOct(raw, out)
}

func encodePoint(pub *ecdsa.PublicKey, compact bool) []byte {
	if compact {
		return elliptic.MarshalCompressed(pub.Curve, pub.X, pub.Y)
	}

	size := (pub.Curve.Params().BitSize + 7) / 8

	p := make([]byte, 1+2*size)
	p[0] = pointUncompressed
	pub.X.FillBytes(p[1 : 1+size])
	pub.Y.FillBytes(p[1+size:])

	return p
}
