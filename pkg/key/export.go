/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package key

import (
	"github.com/go-jose/go-jose/v3"

	"github.com/hyperledger/aries-keyutil-go/pkg/convert"
	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
)

type exportOpts struct {
	keyType       convert.KeyType
	compact       bool
	encryptParams *EncryptParams
	octOutput     convert.OctOutput
	passphrase    string
	// set counts the options other than the passphrase.
	set int
}

// ExportOption configures Export.
type ExportOption func(opts *exportOpts)

// WithType selects the public or private key. A public key can be derived from a private one.
func WithType(t convert.KeyType) ExportOption {
	return func(opts *exportOpts) {
		opts.keyType = t
		opts.set++
	}
}

// WithCompact selects compressed EC points for oct and public DER/PEM output.
func WithCompact() ExportOption {
	return func(opts *exportOpts) {
		opts.compact = true
		opts.set++
	}
}

// WithEncryptParams encrypts private DER/PEM output.
func WithEncryptParams(p *EncryptParams) ExportOption {
	return func(opts *exportOpts) {
		opts.encryptParams = p
		opts.set++
	}
}

// WithOctOutput selects the oct sub-format.
func WithOctOutput(o convert.OctOutput) ExportOption {
	return func(opts *exportOpts) {
		opts.octOutput = o
		opts.set++
	}
}

// WithPassphrase supplies the passphrase needed to read an encrypted key.
func WithPassphrase(passphrase string) ExportOption {
	return func(opts *exportOpts) {
		opts.passphrase = passphrase
	}
}

func newExportOpts(opts []ExportOption) *exportOpts {
	o := &exportOpts{}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *exportOpts) context() *convert.Context {
	ctx := &convert.Context{Type: o.keyType, Compact: o.compact, OctOutput: o.octOutput}

	if o.encryptParams != nil {
		ctx.Encrypt = o.encryptParams.options()
	}

	return ctx
}

// Export returns the key in the requested format. JWK output is JSON.
//
// An encrypted private key exported as DER or PEM without options is returned as the stored container. Otherwise
// the key is materialized as a JWK, which needs WithPassphrase for an encrypted key, and rendered from there.
func (k *Key) Export(format convert.Format, opts ...ExportOption) ([]byte, error) {
	o := newExportOpts(opts)
	s := k.st.Load()

	if (format == convert.DER || format == convert.PEM) && o.set == 0 && s.encrypted && k.keyType == Private &&
		s.hasDER() {
		if format == convert.PEM {
			return convert.EncodePEM(convert.LabelEncryptedPrivateKey, s.der), nil
		}

		return append([]byte(nil), s.der...), nil
	}

	jwk, err := k.materialize(s, o.passphrase)
	if err != nil {
		return nil, err
	}

	return k.conv.FromJWK(format, jwk, o.context())
}

// materialize returns the key as a JWK from the first valid representation of s. A JWK derived from an unencrypted
// representation is cached.
func (k *Key) materialize(s *state, passphrase string) (*jose.JSONWebKey, error) {
	var (
		jwk *jose.JSONWebKey
		err error
	)

	switch {
	case s.hasJWK():
		return s.jwk, nil
	case s.hasOct():
		jwk, err = k.conv.ToJWK(convert.Oct, s.oct, &convert.Context{Curve: s.curve})
	case s.hasDER():
		if s.encrypted && passphrase == "" {
			return nil, keyerr.New(keyerr.StringPassphraseRequired, "encrypted key")
		}

		jwk, err = k.conv.ToJWK(convert.DER, s.der, &convert.Context{Passphrase: passphrase})
	default:
		return nil, keyerr.New(keyerr.InvalidState, "no valid representation")
	}

	if err != nil {
		return nil, err
	}

	if !s.encrypted {
		k.memoize(s, jwk)
	}

	return jwk, nil
}

// memoize caches jwk in a copy of s. If the state changed meanwhile the copy is dropped.
func (k *Key) memoize(s *state, jwk *jose.JSONWebKey) {
	next := *s
	next.jwk = jwk

	if k.st.CompareAndSwap(s, &next) {
		logger.Debugf("cached jwk representation")
	}
}
