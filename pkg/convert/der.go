/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package convert

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"

	"github.com/go-jose/go-jose/v3"

	"github.com/hyperledger/aries-keyutil-go/pkg/asn1def"
	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

//nolint:gochecknoglobals
var oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

func (c *Converter) derToJWK(der []byte, passphrase string) (*jose.JSONWebKey, error) {
	if IsEncrypted(der) {
		if passphrase == "" {
			return nil, keyerr.New(keyerr.StringPassphraseRequired, "encrypted private key")
		}

		plain, err := c.envelope.Decrypt(der, passphrase)
		if err != nil {
			return nil, err
		}

		der = plain
	}

	k, _, err := parseDER(der)
	if err != nil {
		return nil, err
	}

	jwk := &jose.JSONWebKey{Key: k}

	if err = CheckJWK(jwk); err != nil {
		return nil, err
	}

	return jwk, nil
}

// jwkToDER returns the DER encoding of jwk and its PEM label.
func (c *Converter) jwkToDER(jwk *jose.JSONWebKey, ctx *Context) ([]byte, string, error) {
	if err := CheckJWK(jwk); err != nil {
		return nil, "", err
	}

	if TypeOf(jwk) == Public {
		if ctx.Encrypt != nil {
			return nil, "", keyerr.New(keyerr.UnsupportedType, "encrypted public key")
		}

		der, err := marshalPublic(jwk.Key, ctx.Compact)

		return der, LabelPublicKey, err
	}

	der, err := x509.MarshalPKCS8PrivateKey(jwk.Key)
	if err != nil {
		return nil, "", keyerr.Wrap(keyerr.InvalidKeyData, "pkcs8", err)
	}

	if ctx.Encrypt == nil {
		return der, LabelPrivateKey, nil
	}

	if ctx.Encrypt.Passphrase == "" {
		return nil, "", keyerr.New(keyerr.StringPassphraseRequired, "encryption")
	}

	opts := ctx.Encrypt.Options

	enc, err := c.envelope.Encrypt(der, ctx.Encrypt.Passphrase, &opts)
	if err != nil {
		return nil, "", err
	}

	return enc, LabelEncryptedPrivateKey, nil
}

// IsEncrypted reports whether der has the shape of a PKCS#8 EncryptedPrivateKeyInfo.
func IsEncrypted(der []byte) bool {
	_, err := asn1def.DecodeEncryptedPrivateKeyInfo(der)

	return err == nil
}

// parseDER parses an unencrypted SubjectPublicKeyInfo, PKCS#8, PKCS#1 or SEC1 key.
func parseDER(der []byte) (interface{}, KeyType, error) {
	if _, err := asn1def.DecodeSubjectPublicKeyInfo(der); err == nil {
		pub, err := parsePublic(der)

		return pub, Public, err
	}

	if pub, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return pub, Public, nil
	}

	priv, err := parsePrivate(der)
	if err != nil {
		return nil, "", err
	}

	return priv, Private, nil
}

func parsePrivate(der []byte) (crypto.PrivateKey, error) {
	k, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		if k, err = x509.ParsePKCS1PrivateKey(der); err != nil {
			if k, err = x509.ParseECPrivateKey(der); err != nil {
				return nil, keyerr.New(keyerr.InvalidKeyData, "unrecognized private key encoding")
			}
		}
	}

	switch k.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
		return k, nil
	default:
		return nil, keyerr.Newf(keyerr.UnsupportedType, "key %T", k)
	}
}

func parsePublic(der []byte) (crypto.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err == nil {
		switch pub.(type) {
		case *rsa.PublicKey, *ecdsa.PublicKey:
			return pub, nil
		default:
			return nil, keyerr.Newf(keyerr.UnsupportedType, "key %T", pub)
		}
	}

	// x509 does not accept compressed points.
	return parseCompactPublic(der)
}

func parseCompactPublic(der []byte) (*ecdsa.PublicKey, error) {
	spki, err := asn1def.DecodeSubjectPublicKeyInfo(der)
	if err != nil {
		return nil, err
	}

	if !spki.Algorithm.Algorithm.Equal(oidPublicKeyECDSA) {
		return nil, keyerr.New(keyerr.UnsupportedType, "public key algorithm "+spki.Algorithm.Algorithm.String())
	}

	var curveOID asn1.ObjectIdentifier

	if err = asn1def.DecodeParams(spki.Algorithm, &curveOID, "namedCurve"); err != nil {
		return nil, keyerr.Wrap(keyerr.NamedCurveRequired, "", err)
	}

	curve, err := registry.CurveByOID(curveOID)
	if err != nil {
		return nil, err
	}

	return decodePoint(curve, spki.PublicKey.RightAlign())
}

func marshalPublic(k interface{}, compact bool) ([]byte, error) {
	pub, ok := k.(*ecdsa.PublicKey)
	if !compact || !ok {
		der, err := x509.MarshalPKIXPublicKey(k)
		if err != nil {
			return nil, keyerr.Wrap(keyerr.InvalidKeyData, "spki", err)
		}

		return der, nil
	}

	curve, ok := registry.CurveFor(pub.Curve)
	if !ok {
		return nil, keyerr.New(keyerr.UnsupportedType, "curve "+pub.Curve.Params().Name)
	}

	alg, err := asn1def.WithParams(oidPublicKeyECDSA, curve.OID)
	if err != nil {
		return nil, err
	}

	point := elliptic.MarshalCompressed(pub.Curve, pub.X, pub.Y)

	return asn1def.Encode(asn1def.SubjectPublicKeyInfo{
		Algorithm: alg,
		PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
	})
}
