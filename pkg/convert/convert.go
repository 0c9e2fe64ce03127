/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package convert transcodes RSA and EC key material between JSON Web Keys and the binary representations: DER,
// PEM and raw SEC1 octets. Encrypted PKCS#8 containers are opened and produced through the pbe package.
package convert

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/go-jose/go-jose/v3"

	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/pbe"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

// Format names a key representation.
type Format string

// Supported formats.
const (
	JWK Format = "jwk"
	DER Format = "der"
	PEM Format = "pem"
	Oct Format = "oct"
)

// KeyType is the public or private role of a key.
type KeyType string

// Key types.
const (
	Public  KeyType = "public"
	Private KeyType = "private"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case JWK, DER, PEM, Oct:
		return f, nil
	default:
		return "", keyerr.New(keyerr.UnsupportedFormat, s)
	}
}

// ParseKeyType returns the KeyType named s.
func ParseKeyType(s string) (KeyType, error) {
	switch t := KeyType(s); t {
	case Public, Private:
		return t, nil
	default:
		return "", keyerr.New(keyerr.UnsupportedType, "key type "+s)
	}
}

// Context carries the parameters of a single conversion. The zero value converts an unencrypted key without
// changing its type.
type Context struct {
	// Type selects the output role. Empty keeps the role of the source.
	Type KeyType
	// Compact emits compressed EC points in oct and public DER/PEM output.
	Compact bool
	// OctOutput selects the oct sub-format.
	OctOutput OctOutput
	// Passphrase opens encrypted DER/PEM sources.
	Passphrase string
	// Encrypt, when set, encrypts private DER/PEM output. Its Passphrase is required.
	Encrypt *EncryptOptions
	// Curve names the curve of an oct source.
	Curve string
}

// EncryptOptions selects a passphrase and the password based encryption parameters for private key output.
type EncryptOptions struct {
	Passphrase string
	pbe.Options
}

// Converter converts between JWK and the binary formats.
type Converter struct {
	envelope *pbe.Envelope
}

// Opt configures a Converter.
type Opt func(c *Converter)

// WithEnvelope sets the password based encryption envelope.
func WithEnvelope(e *pbe.Envelope) Opt {
	return func(c *Converter) {
		c.envelope = e
	}
}

// New returns a Converter.
func New(opts ...Opt) *Converter {
	c := &Converter{envelope: pbe.New()}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Envelope returns the password based encryption envelope used by the converter.
func (c *Converter) Envelope() *pbe.Envelope {
	return c.envelope
}

// ToJWK parses data in the src format and returns it as a JWK.
func (c *Converter) ToJWK(src Format, data []byte, ctx *Context) (*jose.JSONWebKey, error) {
	if ctx == nil {
		ctx = &Context{}
	}

	var (
		jwk *jose.JSONWebKey
		err error
	)

	switch src {
	case JWK:
		jwk, err = ParseJWK(data)
	case DER:
		jwk, err = c.derToJWK(data, ctx.Passphrase)
	case PEM:
		var der []byte

		if der, _, err = DecodePEM(data); err == nil {
			jwk, err = c.derToJWK(der, ctx.Passphrase)
		}
	case Oct:
		jwk, err = octToJWK(data, ctx.Curve)
	default:
		return nil, keyerr.New(keyerr.UnsupportedFormat, string(src))
	}

	if err != nil {
		return nil, err
	}

	return SelectType(jwk, ctx.Type)
}

// FromJWK renders jwk in the dst format.
func (c *Converter) FromJWK(dst Format, jwk *jose.JSONWebKey, ctx *Context) ([]byte, error) {
	if ctx == nil {
		ctx = &Context{}
	}

	jwk, err := SelectType(jwk, ctx.Type)
	if err != nil {
		return nil, err
	}

	switch dst {
	case JWK:
		return json.Marshal(jwk)
	case DER:
		der, _, err := c.jwkToDER(jwk, ctx)

		return der, err
	case PEM:
		der, label, err := c.jwkToDER(jwk, ctx)
		if err != nil {
			return nil, err
		}

		return EncodePEM(label, der), nil
	case Oct:
		return jwkToOct(jwk, ctx.Compact, ctx.OctOutput)
	default:
		return nil, keyerr.New(keyerr.UnsupportedFormat, string(dst))
	}
}

// ParseJWK unmarshals and validates a JSON Web Key. Only RSA and EC keys on a registered curve are accepted.
func ParseJWK(data []byte) (*jose.JSONWebKey, error) {
	jwk := &jose.JSONWebKey{}

	if err := jwk.UnmarshalJSON(data); err != nil {
		return nil, keyerr.Wrap(keyerr.InvalidKeyData, "jwk", err)
	}

	if err := CheckJWK(jwk); err != nil {
		return nil, err
	}

	return jwk, nil
}

// CloneJWK returns a deep copy of jwk that shares no key material with it.
func CloneJWK(jwk *jose.JSONWebKey) (*jose.JSONWebKey, error) {
	if err := CheckJWK(jwk); err != nil {
		return nil, err
	}

	data, err := jwk.MarshalJSON()
	if err != nil {
		return nil, keyerr.Wrap(keyerr.InvalidKeyData, "jwk", err)
	}

	return ParseJWK(data)
}

// CheckJWK verifies that jwk holds a valid RSA or EC key on a registered curve.
func CheckJWK(jwk *jose.JSONWebKey) error {
	if jwk == nil || jwk.Key == nil {
		return keyerr.New(keyerr.InvalidKeyData, "empty jwk")
	}

	switch k := jwk.Key.(type) {
	case *rsa.PublicKey, *rsa.PrivateKey:
	case *ecdsa.PublicKey:
		if _, ok := registry.CurveFor(k.Curve); !ok {
			return keyerr.New(keyerr.UnsupportedType, "curve "+k.Curve.Params().Name)
		}
	case *ecdsa.PrivateKey:
		if _, ok := registry.CurveFor(k.Curve); !ok {
			return keyerr.New(keyerr.UnsupportedType, "curve "+k.Curve.Params().Name)
		}
	default:
		return keyerr.New(keyerr.UnsupportedType, fmt.Sprintf("key %T", jwk.Key))
	}

	if !jwk.Valid() {
		return keyerr.New(keyerr.InvalidKeyData, "jwk")
	}

	return nil
}

// TypeOf returns the role of jwk.
func TypeOf(jwk *jose.JSONWebKey) KeyType {
	if jwk.IsPublic() {
		return Public
	}

	return Private
}

// SelectType returns jwk in the requested role. A public key is derived from a private one; a private key cannot be
// derived from a public one. An empty t returns jwk unchanged.
func SelectType(jwk *jose.JSONWebKey, t KeyType) (*jose.JSONWebKey, error) {
	switch {
	case t == "" || t == TypeOf(jwk):
		return jwk, nil
	case t == Public:
		pub := jwk.Public()

		return &pub, nil
	case t == Private:
		return nil, keyerr.New(keyerr.UnsupportedType, "private key from a public key")
	default:
		return nil, keyerr.New(keyerr.UnsupportedType, "key type "+string(t))
	}
}
