/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package registry holds the immutable algorithm tables used by the key derivation and password based encryption
// packages: hashes, PKCS#5 encryption schemes, key derivation functions, PBKDF2 pseudorandom functions, PBES2
// ciphers and named elliptic curves.
//
// The tables are built at package initialization and never mutated afterwards. Lookups by name report presence with
// a boolean; lookups by OID return a keyerr.UnrecognizedAlgorithmIdentifier error for unknown identifiers.
package registry

import (
	"crypto/elliptic"
	"encoding/asn1"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
)

// Hash names.
const (
	MD5    = "MD5"
	SHA1   = "SHA-1"
	SHA256 = "SHA-256"
	SHA384 = "SHA-384"
	SHA512 = "SHA-512"
)

// Password based encryption scheme names.
const (
	PBES2             = "pbes2"
	PBEWithMD5AndDES  = "pbeWithMD5AndDES-CBC"
	PBEWithSHA1AndDES = "pbeWithSHA1AndDES"
)

// Key derivation function names.
const (
	PBKDF2 = "pbkdf2"
)

// PBKDF2 pseudorandom function names.
const (
	HMACWithSHA1   = "hmacWithSHA1"
	HMACWithSHA256 = "hmacWithSHA256"
	HMACWithSHA384 = "hmacWithSHA384"
	HMACWithSHA512 = "hmacWithSHA512"
)

// Cipher names. DESCBC is only reachable through the PBES1 schemes.
const (
	DESCBC     = "des-cbc"
	DESEDE3CBC = "des-ede3-cbc"
	AES128CBC  = "aes128-cbc"
	AES256CBC  = "aes256-cbc"
)

// Curve names, as used in the JWK "crv" member.
const (
	P256 = "P-256"
	P384 = "P-384"
	P521 = "P-521"
)

// Hash describes a message digest.
type Hash struct {
	Name string
	Size int
}

// Scheme describes a PKCS#5 password based encryption scheme. Hash and Cipher are only set for PBES1 schemes, whose
// primitives are fixed by the scheme identifier.
type Scheme struct {
	Name   string
	OID    asn1.ObjectIdentifier
	Hash   string
	Cipher string
}

// IsPBES2 reports whether the scheme is PBES2.
func (s Scheme) IsPBES2() bool {
	return s.Name == PBES2
}

// KDF describes a PBES2 key derivation function.
type KDF struct {
	Name           string
	OID            asn1.ObjectIdentifier
	DefaultSaltLen int
}

// PRF describes a PBKDF2 pseudorandom function.
type PRF struct {
	Name string
	OID  asn1.ObjectIdentifier
	Hash string
}

// Cipher describes a CBC block cipher usable as a PBES2 encryption scheme.
type Cipher struct {
	Name      string
	OID       asn1.ObjectIdentifier
	KeyLength int
	IVLength  int
}

// Curve describes a named elliptic curve.
type Curve struct {
	Name  string
	OID   asn1.ObjectIdentifier
	Curve elliptic.Curve
	// Size is the byte length of a field element and of the private scalar.
	Size int
}

//nolint:gochecknoglobals
var (
	hashes = map[string]Hash{
		MD5:    {Name: MD5, Size: 16},
		SHA1:   {Name: SHA1, Size: 20},
		SHA256: {Name: SHA256, Size: 32},
		SHA384: {Name: SHA384, Size: 48},
		SHA512: {Name: SHA512, Size: 64},
	}

	schemes = map[string]Scheme{
		PBES2: {Name: PBES2, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 13}},
		PBEWithMD5AndDES: {
			Name: PBEWithMD5AndDES, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 3}, Hash: MD5, Cipher: DESCBC,
		},
		PBEWithSHA1AndDES: {
			Name: PBEWithSHA1AndDES, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 10}, Hash: SHA1, Cipher: DESCBC,
		},
	}

	kdfs = map[string]KDF{
		PBKDF2: {Name: PBKDF2, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 12}, DefaultSaltLen: 8},
	}

	prfs = map[string]PRF{
		HMACWithSHA1:   {Name: HMACWithSHA1, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 7}, Hash: SHA1},
		HMACWithSHA256: {Name: HMACWithSHA256, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 9}, Hash: SHA256},
		HMACWithSHA384: {Name: HMACWithSHA384, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 10}, Hash: SHA384},
		HMACWithSHA512: {Name: HMACWithSHA512, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 11}, Hash: SHA512},
	}

	ciphers = map[string]Cipher{
		DESEDE3CBC: {Name: DESEDE3CBC, OID: asn1.ObjectIdentifier{1, 2, 840, 113549, 3, 7}, KeyLength: 24, IVLength: 8},
		AES128CBC: {
			Name: AES128CBC, OID: asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 2}, KeyLength: 16, IVLength: 16,
		},
		AES256CBC: {
			Name: AES256CBC, OID: asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 42}, KeyLength: 32, IVLength: 16,
		},
	}

	curves = map[string]Curve{
		P256: {Name: P256, OID: asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}, Curve: elliptic.P256(), Size: 32},
		P384: {Name: P384, OID: asn1.ObjectIdentifier{1, 3, 132, 0, 34}, Curve: elliptic.P384(), Size: 48},
		P521: {Name: P521, OID: asn1.ObjectIdentifier{1, 3, 132, 0, 35}, Curve: elliptic.P521(), Size: 66},
	}
)

// LookupHash returns the hash registered under name.
func LookupHash(name string) (Hash, bool) {
	h, ok := hashes[name]

	return h, ok
}

// LookupScheme returns the encryption scheme registered under name.
func LookupScheme(name string) (Scheme, bool) {
	s, ok := schemes[name]

	return s, ok
}

// SchemeByOID returns the encryption scheme identified by oid.
func SchemeByOID(oid asn1.ObjectIdentifier) (Scheme, error) {
	return byOID(schemes, oid, func(s Scheme) asn1.ObjectIdentifier { return s.OID })
}

// LookupKDF returns the key derivation function registered under name.
func LookupKDF(name string) (KDF, bool) {
	k, ok := kdfs[name]

	return k, ok
}

// KDFByOID returns the key derivation function identified by oid.
func KDFByOID(oid asn1.ObjectIdentifier) (KDF, error) {
	return byOID(kdfs, oid, func(k KDF) asn1.ObjectIdentifier { return k.OID })
}

// LookupPRF returns the pseudorandom function registered under name.
func LookupPRF(name string) (PRF, bool) {
	p, ok := prfs[name]

	return p, ok
}

// PRFByOID returns the pseudorandom function identified by oid.
func PRFByOID(oid asn1.ObjectIdentifier) (PRF, error) {
	return byOID(prfs, oid, func(p PRF) asn1.ObjectIdentifier { return p.OID })
}

// LookupCipher returns the PBES2 cipher registered under name.
func LookupCipher(name string) (Cipher, bool) {
	c, ok := ciphers[name]

	return c, ok
}

// CipherByOID returns the PBES2 cipher identified by oid.
func CipherByOID(oid asn1.ObjectIdentifier) (Cipher, error) {
	return byOID(ciphers, oid, func(c Cipher) asn1.ObjectIdentifier { return c.OID })
}

// LookupCurve returns the curve registered under name.
func LookupCurve(name string) (Curve, bool) {
	c, ok := curves[name]

	return c, ok
}

// CurveByOID returns the curve identified by oid.
func CurveByOID(oid asn1.ObjectIdentifier) (Curve, error) {
	return byOID(curves, oid, func(c Curve) asn1.ObjectIdentifier { return c.OID })
}

// CurveFor returns the registered curve matching an elliptic.Curve implementation.
func CurveFor(c elliptic.Curve) (Curve, bool) {
	if c == nil {
		return Curve{}, false
	}

	return LookupCurve(c.Params().Name)
}

// SchemeNames returns the sorted names of all encryption schemes.
func SchemeNames() []string { return sortedNames(schemes) }

// PRFNames returns the sorted names of all PBKDF2 pseudorandom functions.
func PRFNames() []string { return sortedNames(prfs) }

// CipherNames returns the sorted names of all PBES2 ciphers.
func CipherNames() []string { return sortedNames(ciphers) }

// CurveNames returns the sorted names of all curves.
func CurveNames() []string { return sortedNames(curves) }

func byOID[T any](table map[string]T, oid asn1.ObjectIdentifier, oidOf func(T) asn1.ObjectIdentifier) (T, error) {
	for _, entry := range table {
		if oidOf(entry).Equal(oid) {
			return entry, nil
		}
	}

	var zero T

	return zero, keyerr.New(keyerr.UnrecognizedAlgorithmIdentifier, oid.String())
}

func sortedNames[T any](table map[string]T) []string {
	names := maps.Keys(table)
	slices.Sort(names)

	return names
}
