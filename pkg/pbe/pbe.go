/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pbe implements the PKCS#5 password based encryption schemes PBES1 and PBES2 (RFC 8018) over PKCS#8
// EncryptedPrivateKeyInfo containers.
//
// Every option is resolved against the algorithm registry before the first primitive call, so a request naming an
// unsupported algorithm fails without generating salts or IVs.
package pbe

import (
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-keyutil-go/pkg/asn1def"
	"github.com/hyperledger/aries-keyutil-go/pkg/kdf"
	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/primitive"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

const (
	// DefaultIterationCount is the iteration count used when Options leaves it unset.
	DefaultIterationCount = 2048

	// PBES1 derives 16 bytes: an 8 byte DES key followed by an 8 byte IV.
	pbes1KeyLen  = 8
	pbes1SaltLen = 8
)

var logger = log.New("keyutil/pbe")

// Options selects the encryption scheme and its parameters. Zero fields take the defaults of DefaultOptions.
// Cipher, PRF and KDF only apply to PBES2.
type Options struct {
	Algorithm      string `json:"algorithm"`
	KDF            string `json:"kdf,omitempty"`
	Cipher         string `json:"cipher,omitempty"`
	PRF            string `json:"prf,omitempty"`
	IterationCount int    `json:"iterationCount"`
}

// DefaultOptions returns PBES2 with PBKDF2, hmacWithSHA256, aes256-cbc and 2048 iterations.
func DefaultOptions() *Options {
	return &Options{
		Algorithm:      registry.PBES2,
		KDF:            registry.PBKDF2,
		Cipher:         registry.AES256CBC,
		PRF:            registry.HMACWithSHA256,
		IterationCount: DefaultIterationCount,
	}
}

func (o *Options) withDefaults() Options {
	d := *DefaultOptions()

	if o == nil {
		return d
	}

	r := *o

	if r.Algorithm == "" {
		r.Algorithm = d.Algorithm
	}

	if r.KDF == "" {
		r.KDF = d.KDF
	}

	if r.Cipher == "" {
		r.Cipher = d.Cipher
	}

	if r.PRF == "" {
		r.PRF = d.PRF
	}

	if r.IterationCount == 0 {
		r.IterationCount = d.IterationCount
	}

	return r
}

// Envelope encrypts and decrypts private keys with a passphrase.
type Envelope struct {
	prims primitive.Primitives
}

// Opt configures an Envelope.
type Opt func(e *Envelope)

// WithPrimitives overrides the software primitives.
func WithPrimitives(p primitive.Primitives) Opt {
	return func(e *Envelope) {
		e.prims = p
	}
}

// New returns an Envelope.
func New(opts ...Opt) *Envelope {
	e := &Envelope{prims: primitive.New()}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// plan is a fully resolved encryption request.
type plan struct {
	scheme     registry.Scheme
	kdf        registry.KDF
	cipher     registry.Cipher
	prf        registry.PRF
	iterations int
}

func resolve(o Options) (*plan, error) {
	if o.IterationCount < 1 {
		return nil, keyerr.Newf(keyerr.InvalidParameter, "iteration count %d", o.IterationCount)
	}

	scheme, ok := registry.LookupScheme(o.Algorithm)
	if !ok {
		return nil, keyerr.New(keyerr.UnsupportedEncryptionAlgorithm, o.Algorithm)
	}

	p := &plan{scheme: scheme, iterations: o.IterationCount}

	if !scheme.IsPBES2() {
		return p, nil
	}

	if p.kdf, ok = registry.LookupKDF(o.KDF); !ok {
		return nil, keyerr.New(keyerr.UnsupportedKDF, o.KDF)
	}

	if p.prf, ok = registry.LookupPRF(o.PRF); !ok {
		return nil, keyerr.New(keyerr.UnsupportedKDF, "prf "+o.PRF)
	}

	if p.cipher, ok = registry.LookupCipher(o.Cipher); !ok {
		return nil, keyerr.New(keyerr.UnsupportedCipher, o.Cipher)
	}

	return p, nil
}

// Encrypt encrypts the PKCS#8 private key plain under passphrase and returns the DER encoded
// EncryptedPrivateKeyInfo. A nil opts selects DefaultOptions.
func (e *Envelope) Encrypt(plain []byte, passphrase string, opts *Options) ([]byte, error) {
	if passphrase == "" {
		return nil, keyerr.New(keyerr.StringPassphraseRequired, "")
	}

	p, err := resolve(opts.withDefaults())
	if err != nil {
		return nil, err
	}

	var alg asn1def.EncryptedPrivateKeyInfo

	if p.scheme.IsPBES2() {
		alg, err = e.encryptPBES2(p, plain, []byte(passphrase))
	} else {
		alg, err = e.encryptPBES1(p, plain, []byte(passphrase))
	}

	if err != nil {
		return nil, err
	}

	return asn1def.Encode(alg)
}

func (e *Envelope) encryptPBES2(p *plan, plain, password []byte) (asn1def.EncryptedPrivateKeyInfo, error) {
	logger.Debugf("encrypting with %s/%s/%s, %d iterations", p.scheme.Name, p.prf.Name, p.cipher.Name,
		p.iterations)

	if p.cipher.Name == registry.DESEDE3CBC {
		logger.Warnf("%s is a legacy cipher, prefer %s", p.cipher.Name, registry.AES256CBC)
	}

	none := asn1def.EncryptedPrivateKeyInfo{}

	salt, err := e.prims.RandomBytes(p.kdf.DefaultSaltLen)
	if err != nil {
		return none, err
	}

	dk, err := kdf.PBKDF2(e.prims, password, salt, p.iterations, p.cipher.KeyLength, p.prf.Hash)
	if err != nil {
		return none, err
	}

	iv, err := e.prims.RandomBytes(p.cipher.IVLength)
	if err != nil {
		return none, err
	}

	ct, err := e.prims.Encrypt(p.cipher.Name, dk, iv, plain)
	if err != nil {
		return none, err
	}

	kdfAlg, err := asn1def.WithParams(p.kdf.OID, asn1def.PBKDF2Params{
		Salt:           asn1def.NewSpecifiedSalt(salt),
		IterationCount: p.iterations,
		PRF:            asn1def.NullParams(p.prf.OID),
	})
	if err != nil {
		return none, err
	}

	encAlg, err := asn1def.WithParams(p.cipher.OID, iv)
	if err != nil {
		return none, err
	}

	alg, err := asn1def.WithParams(p.scheme.OID, asn1def.PBES2Params{
		KeyDerivationFunc: kdfAlg,
		EncryptionScheme:  encAlg,
	})
	if err != nil {
		return none, err
	}

	return asn1def.EncryptedPrivateKeyInfo{EncryptionAlgorithm: alg, EncryptedData: ct}, nil
}

func (e *Envelope) encryptPBES1(p *plan, plain, password []byte) (asn1def.EncryptedPrivateKeyInfo, error) {
	logger.Warnf("encrypting with legacy scheme %s, %d iterations", p.scheme.Name, p.iterations)

	none := asn1def.EncryptedPrivateKeyInfo{}

	salt, err := e.prims.RandomBytes(pbes1SaltLen)
	if err != nil {
		return none, err
	}

	key, iv, err := e.pbes1Key(p.scheme, password, salt, p.iterations)
	if err != nil {
		return none, err
	}

	ct, err := e.prims.Encrypt(p.scheme.Cipher, key, iv, plain)
	if err != nil {
		return none, err
	}

	alg, err := asn1def.WithParams(p.scheme.OID, asn1def.PBEParameter{Salt: salt, IterationCount: p.iterations})
	if err != nil {
		return none, err
	}

	return asn1def.EncryptedPrivateKeyInfo{EncryptionAlgorithm: alg, EncryptedData: ct}, nil
}

func (e *Envelope) pbes1Key(scheme registry.Scheme, password, salt []byte, iterations int) ([]byte, []byte, error) {
	dk, err := kdf.PBKDF1(e.prims, password, salt, iterations, 2*pbes1KeyLen, scheme.Hash)
	if err != nil {
		return nil, nil, err
	}

	return dk[:pbes1KeyLen], dk[pbes1KeyLen:], nil
}

// Decrypt decrypts a DER encoded EncryptedPrivateKeyInfo and returns the PKCS#8 private key it holds.
//
// No integrity check is performed beyond the cipher padding and the structure of the plaintext. A wrong passphrase
// is reported as keyerr.DecryptionFailed when either of those checks catches it.
func (e *Envelope) Decrypt(der []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, keyerr.New(keyerr.StringPassphraseRequired, "")
	}

	c, err := parse(der)
	if err != nil {
		return nil, err
	}

	logger.Debugf("decrypting %s container, %d iterations", c.scheme.Name, c.iterations)

	password := []byte(passphrase)

	var key, iv []byte

	cipherName := c.scheme.Cipher

	if c.scheme.IsPBES2() {
		cipherName = c.cipher.Name
		iv = c.iv

		key, err = kdf.PBKDF2(e.prims, password, c.salt, c.iterations, c.cipher.KeyLength, c.prf.Hash)
	} else {
		key, iv, err = e.pbes1Key(c.scheme, password, c.salt, c.iterations)
	}

	if err != nil {
		return nil, err
	}

	plain, err := e.prims.Decrypt(cipherName, key, iv, c.data)
	if err != nil {
		return nil, err
	}

	if _, err = asn1def.DecodeOneAsymmetricKey(plain); err != nil {
		return nil, keyerr.Wrap(keyerr.DecryptionFailed, "plaintext is not a private key", err)
	}

	return plain, nil
}

// Parameters reports the scheme and parameters of a DER encoded EncryptedPrivateKeyInfo without decrypting it.
func Parameters(der []byte) (*Options, error) {
	c, err := parse(der)
	if err != nil {
		return nil, err
	}

	o := &Options{Algorithm: c.scheme.Name, IterationCount: c.iterations}

	if c.scheme.IsPBES2() {
		o.KDF = c.kdf.Name
		o.Cipher = c.cipher.Name
		o.PRF = c.prf.Name
	} else {
		o.Cipher = c.scheme.Cipher
	}

	return o, nil
}
