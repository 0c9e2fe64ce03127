/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package asn1def defines the PKCS#5 and PKCS#8 ASN.1 structures used by password based encryption, together with
// their DER encoders and strict decoders.
package asn1def

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
)

// EncryptedPrivateKeyInfo is the PKCS#8 encrypted container (RFC 5958 section 3).
type EncryptedPrivateKeyInfo struct {
	EncryptionAlgorithm pkix.AlgorithmIdentifier
	EncryptedData       []byte
}

// PBES2Params is PBES2-params (RFC 8018 appendix A.4).
type PBES2Params struct {
	KeyDerivationFunc pkix.AlgorithmIdentifier
	EncryptionScheme  pkix.AlgorithmIdentifier
}

// PBKDF2Params is PBKDF2-params (RFC 8018 appendix A.2). Salt is the raw CHOICE; only the specified (OCTET STRING)
// alternative is understood by SpecifiedSalt.
type PBKDF2Params struct {
	Salt           asn1.RawValue
	IterationCount int
	KeyLength      int                      `asn1:"optional"`
	PRF            pkix.AlgorithmIdentifier `asn1:"optional"`
}

// PBEParameter is the PBES1 parameter structure (RFC 8018 appendix A.3).
type PBEParameter struct {
	Salt           []byte
	IterationCount int
}

// OneAsymmetricKey is the PKCS#8 private key structure (RFC 5958 section 2).
type OneAsymmetricKey struct {
	Version             int
	PrivateKeyAlgorithm pkix.AlgorithmIdentifier
	PrivateKey          []byte
	Attributes          asn1.RawValue  `asn1:"optional,tag:0"`
	PublicKey           asn1.BitString `asn1:"optional,tag:1"`
}

// SubjectPublicKeyInfo is the X.509 public key structure (RFC 5280 section 4.1).
type SubjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// NewSpecifiedSalt returns the PBKDF2 salt CHOICE holding the given octets.
func NewSpecifiedSalt(salt []byte) asn1.RawValue {
	return asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagOctetString, Bytes: salt}
}

// SpecifiedSalt returns the octets of the specified salt alternative.
func (p *PBKDF2Params) SpecifiedSalt() ([]byte, error) {
	if p.Salt.Class != asn1.ClassUniversal || p.Salt.Tag != asn1.TagOctetString || p.Salt.IsCompound {
		return nil, keyerr.Newf(keyerr.UnsupportedSaltSource, "tag %d class %d", p.Salt.Tag, p.Salt.Class)
	}

	return p.Salt.Bytes, nil
}

// HasPRF reports whether the optional prf field was present.
func (p *PBKDF2Params) HasPRF() bool {
	return len(p.PRF.Algorithm) > 0
}

// NullParams returns an AlgorithmIdentifier with NULL parameters.
func NullParams(oid asn1.ObjectIdentifier) pkix.AlgorithmIdentifier {
	return pkix.AlgorithmIdentifier{Algorithm: oid, Parameters: asn1.NullRawValue}
}

// WithParams returns an AlgorithmIdentifier whose parameters are the DER encoding of params.
func WithParams(oid asn1.ObjectIdentifier, params interface{}) (pkix.AlgorithmIdentifier, error) {
	der, err := asn1.Marshal(params)
	if err != nil {
		return pkix.AlgorithmIdentifier{}, fmt.Errorf("marshal %s parameters: %w", oid, err)
	}

	return pkix.AlgorithmIdentifier{Algorithm: oid, Parameters: asn1.RawValue{FullBytes: der}}, nil
}

// Encode returns the DER encoding of v.
func Encode(v interface{}) ([]byte, error) {
	der, err := asn1.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("asn1 encode %T: %w", v, err)
	}

	return der, nil
}

// Decode parses the DER in data into v and rejects trailing bytes. Failures are reported as keyerr.InvalidKeyData
// about name.
func Decode(data []byte, v interface{}, name string) error {
	rest, err := asn1.Unmarshal(data, v)
	if err != nil {
		return keyerr.Wrap(keyerr.InvalidKeyData, name, err)
	}

	if len(rest) != 0 {
		return keyerr.Newf(keyerr.InvalidKeyData, "%s: %d trailing bytes", name, len(rest))
	}

	return nil
}

// DecodeParams parses the parameters of an AlgorithmIdentifier into v.
func DecodeParams(alg pkix.AlgorithmIdentifier, v interface{}, name string) error {
	if len(alg.Parameters.FullBytes) == 0 {
		return keyerr.Newf(keyerr.InvalidKeyData, "%s: missing parameters", name)
	}

	return Decode(alg.Parameters.FullBytes, v, name)
}

// DecodeEncryptedPrivateKeyInfo parses an EncryptedPrivateKeyInfo.
func DecodeEncryptedPrivateKeyInfo(der []byte) (*EncryptedPrivateKeyInfo, error) {
	info := &EncryptedPrivateKeyInfo{}

	if err := Decode(der, info, "EncryptedPrivateKeyInfo"); err != nil {
		return nil, err
	}

	return info, nil
}

// DecodeOneAsymmetricKey parses a PKCS#8 OneAsymmetricKey.
func DecodeOneAsymmetricKey(der []byte) (*OneAsymmetricKey, error) {
	k := &OneAsymmetricKey{}

	if err := Decode(der, k, "OneAsymmetricKey"); err != nil {
		return nil, err
	}

	if len(k.PrivateKey) == 0 {
		return nil, keyerr.New(keyerr.InvalidKeyData, "OneAsymmetricKey: empty privateKey")
	}

	return k, nil
}

// DecodeSubjectPublicKeyInfo parses a SubjectPublicKeyInfo.
func DecodeSubjectPublicKeyInfo(der []byte) (*SubjectPublicKeyInfo, error) {
	spki := &SubjectPublicKeyInfo{}

	if err := Decode(der, spki, "SubjectPublicKeyInfo"); err != nil {
		return nil, err
	}

	return spki, nil
}
