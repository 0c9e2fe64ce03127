/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package key holds an asymmetric key in one of several representations and converts between them on demand.
//
// A Key is built from exactly one representation: a JWK, DER or PEM bytes, or raw SEC1 octets with a named curve.
// Other representations are derived lazily by Export and the derived JWK is cached. A key whose DER form is an
// encrypted PKCS#8 container holds nothing else until it is decrypted.
//
// The representations live in an immutable state value swapped atomically, so a Key may be shared between
// goroutines.
package key

import (
	"crypto"
	"sync/atomic"

	"github.com/go-jose/go-jose/v3"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-keyutil-go/pkg/convert"
	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/pbe"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

var logger = log.New("keyutil/key")

// Key types.
const (
	Public  = convert.Public
	Private = convert.Private
)

// state is one immutable snapshot of a key's representations.
type state struct {
	jwk       *jose.JSONWebKey
	der       []byte
	encrypted bool
	oct       []byte
	curve     string
}

func (s *state) hasJWK() bool {
	return s.jwk != nil && convert.CheckJWK(s.jwk) == nil
}

func (s *state) hasDER() bool {
	return len(s.der) > 0
}

func (s *state) hasOct() bool {
	if len(s.oct) == 0 {
		return false
	}

	_, ok := registry.LookupCurve(s.curve)

	return ok
}

func (s *state) valid() bool {
	return s.hasJWK() || s.hasDER() || s.hasOct()
}

// Key is an RSA or EC key.
type Key struct {
	st      atomic.Pointer[state]
	keyType convert.KeyType
	conv    *convert.Converter
}

type options struct {
	conv  *convert.Converter
	curve string
}

// Option configures a Key at construction.
type Option func(opts *options)

// WithConverter sets the converter used for every representation change.
func WithConverter(c *convert.Converter) Option {
	return func(opts *options) {
		opts.conv = c
	}
}

// WithNamedCurve names the curve of an oct key.
func WithNamedCurve(curve string) Option {
	return func(opts *options) {
		opts.curve = curve
	}
}

// New builds a Key from data in the given format.
func New(format convert.Format, data []byte, opts ...Option) (*Key, error) {
	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	if o.conv == nil {
		o.conv = convert.New()
	}

	switch format {
	case convert.JWK:
		jwk, err := convert.ParseJWK(data)
		if err != nil {
			return nil, err
		}

		return newFromJWK(jwk, o.conv)
	case convert.DER:
		return newFromDER(data, o.conv)
	case convert.PEM:
		der, _, err := convert.DecodePEM(data)
		if err != nil {
			return nil, err
		}

		return newFromDER(der, o.conv)
	case convert.Oct:
		return newFromOct(data, o.curve, o.conv)
	default:
		return nil, keyerr.New(keyerr.UnsupportedType, "format "+string(format))
	}
}

// NewFromJWK builds a Key from a JWK value.
func NewFromJWK(jwk *jose.JSONWebKey, opts ...Option) (*Key, error) {
	o := &options{conv: convert.New()}

	for _, opt := range opts {
		opt(o)
	}

	return newFromJWK(jwk, o.conv)
}

// ParseJWK builds a Key from a JSON encoded JWK.
func ParseJWK(data []byte, opts ...Option) (*Key, error) {
	return New(convert.JWK, data, opts...)
}

// NewFromDER builds a Key from a DER encoded SubjectPublicKeyInfo, PKCS#8 (plain or encrypted), PKCS#1 or SEC1 key.
func NewFromDER(der []byte, opts ...Option) (*Key, error) {
	return New(convert.DER, der, opts...)
}

// NewFromPEM builds a Key from a PEM encoded key.
func NewFromPEM(data []byte, opts ...Option) (*Key, error) {
	return New(convert.PEM, data, opts...)
}

// NewFromOct builds an EC Key from a raw private scalar or a compressed or uncompressed point on namedCurve.
func NewFromOct(data []byte, namedCurve string, opts ...Option) (*Key, error) {
	return New(convert.Oct, data, append(opts, WithNamedCurve(namedCurve))...)
}

func newFromJWK(jwk *jose.JSONWebKey, conv *convert.Converter) (*Key, error) {
	jwk, err := convert.CloneJWK(jwk)
	if err != nil {
		return nil, err
	}

	return newKey(&state{jwk: jwk}, convert.TypeOf(jwk), conv), nil
}

func newFromDER(der []byte, conv *convert.Converter) (*Key, error) {
	if len(der) == 0 {
		return nil, keyerr.New(keyerr.InvalidKeyData, "empty DER")
	}

	info, err := convert.InspectDER(der)
	if err != nil {
		return nil, err
	}

	der = append([]byte(nil), der...)

	return newKey(&state{der: der, encrypted: info.Encrypted}, info.Type, conv), nil
}

func newFromOct(data []byte, curve string, conv *convert.Converter) (*Key, error) {
	t, err := convert.OctKeyType(data, curve)
	if err != nil {
		return nil, err
	}

	return newKey(&state{oct: append([]byte(nil), data...), curve: curve}, t, conv), nil
}

func newKey(s *state, t convert.KeyType, conv *convert.Converter) *Key {
	k := &Key{keyType: t, conv: conv}
	k.st.Store(s)

	return k
}

// Type returns the role of the key.
func (k *Key) Type() convert.KeyType {
	return k.keyType
}

// IsPrivate reports whether the key is a private key.
func (k *Key) IsPrivate() bool {
	return k.keyType == Private
}

// IsEncrypted reports whether the key is held as an encrypted PKCS#8 container.
func (k *Key) IsEncrypted() bool {
	return k.st.Load().encrypted
}

// Encryption returns the parameters of the encrypted container. It returns nil options and no error if the key is
// not encrypted.
func (k *Key) Encryption() (*pbe.Options, error) {
	s := k.st.Load()
	if !s.encrypted {
		return nil, nil //nolint:nilnil
	}

	return pbe.Parameters(s.der)
}

// JWK returns a copy of the key as a JWK.
func (k *Key) JWK(opts ...ExportOption) (*jose.JSONWebKey, error) {
	o := newExportOpts(opts)

	jwk, err := k.materialize(k.st.Load(), o.passphrase)
	if err != nil {
		return nil, err
	}

	if jwk, err = convert.SelectType(jwk, o.keyType); err != nil {
		return nil, err
	}

	return convert.CloneJWK(jwk)
}

// DER returns the key as DER.
func (k *Key) DER(opts ...ExportOption) ([]byte, error) {
	return k.Export(convert.DER, opts...)
}

// PEM returns the key as PEM.
func (k *Key) PEM(opts ...ExportOption) ([]byte, error) {
	return k.Export(convert.PEM, opts...)
}

// Thumbprint returns the RFC 7638 thumbprint of the key's public part.
func (k *Key) Thumbprint(h crypto.Hash, opts ...ExportOption) ([]byte, error) {
	if !h.Available() {
		return nil, keyerr.Newf(keyerr.UnsupportedType, "hash %d", uint(h))
	}

	jwk, err := k.JWK(opts...)
	if err != nil {
		return nil, err
	}

	tp, err := jwk.Thumbprint(h)
	if err != nil {
		return nil, keyerr.Wrap(keyerr.InvalidParameter, "thumbprint", err)
	}

	return tp, nil
}
