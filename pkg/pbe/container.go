/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pbe

import (
	"github.com/hyperledger/aries-keyutil-go/pkg/asn1def"
	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

// container is a decoded EncryptedPrivateKeyInfo with every algorithm identifier resolved.
type container struct {
	scheme     registry.Scheme
	kdf        registry.KDF
	prf        registry.PRF
	cipher     registry.Cipher
	salt       []byte
	iv         []byte
	iterations int
	data       []byte
}

func parse(der []byte) (*container, error) {
	info, err := asn1def.DecodeEncryptedPrivateKeyInfo(der)
	if err != nil {
		return nil, err
	}

	scheme, err := registry.SchemeByOID(info.EncryptionAlgorithm.Algorithm)
	if err != nil {
		return nil, err
	}

	if len(info.EncryptedData) == 0 {
		return nil, keyerr.New(keyerr.InvalidKeyData, "empty encryptedData")
	}

	c := &container{scheme: scheme, data: info.EncryptedData}

	if scheme.IsPBES2() {
		err = c.parsePBES2(info)
	} else {
		err = c.parsePBES1(info)
	}

	if err != nil {
		return nil, err
	}

	if c.iterations < 1 {
		return nil, keyerr.Newf(keyerr.InvalidKeyData, "iteration count %d", c.iterations)
	}

	return c, nil
}

func (c *container) parsePBES1(info *asn1def.EncryptedPrivateKeyInfo) error {
	var params asn1def.PBEParameter

	if err := asn1def.DecodeParams(info.EncryptionAlgorithm, &params, "PBEParameter"); err != nil {
		return err
	}

	if len(params.Salt) != pbes1SaltLen {
		return keyerr.Newf(keyerr.InvalidKeyData, "PBEParameter salt length %d", len(params.Salt))
	}

	c.salt = params.Salt
	c.iterations = params.IterationCount

	return nil
}

func (c *container) parsePBES2(info *asn1def.EncryptedPrivateKeyInfo) error {
	var params asn1def.PBES2Params

	if err := asn1def.DecodeParams(info.EncryptionAlgorithm, &params, "PBES2-params"); err != nil {
		return err
	}

	var err error

	if c.kdf, err = registry.KDFByOID(params.KeyDerivationFunc.Algorithm); err != nil {
		return keyerr.New(keyerr.UnsupportedKDF, params.KeyDerivationFunc.Algorithm.String())
	}

	if c.cipher, err = registry.CipherByOID(params.EncryptionScheme.Algorithm); err != nil {
		return keyerr.New(keyerr.UnsupportedCipher, params.EncryptionScheme.Algorithm.String())
	}

	var kdfParams asn1def.PBKDF2Params

	if err = asn1def.DecodeParams(params.KeyDerivationFunc, &kdfParams, "PBKDF2-params"); err != nil {
		return err
	}

	if c.salt, err = kdfParams.SpecifiedSalt(); err != nil {
		return err
	}

	if kdfParams.KeyLength != 0 && kdfParams.KeyLength != c.cipher.KeyLength {
		return keyerr.Newf(keyerr.InvalidKeyData, "PBKDF2 keyLength %d for %s", kdfParams.KeyLength, c.cipher.Name)
	}

	// the prf defaults to hmacWithSHA1 when absent.
	c.prf, _ = registry.LookupPRF(registry.HMACWithSHA1)

	if kdfParams.HasPRF() {
		if c.prf, err = registry.PRFByOID(kdfParams.PRF.Algorithm); err != nil {
			return err
		}
	}

	if err = asn1def.DecodeParams(params.EncryptionScheme, &c.iv, c.cipher.Name+" IV"); err != nil {
		return err
	}

	if len(c.iv) != c.cipher.IVLength {
		return keyerr.Newf(keyerr.InvalidKeyData, "%s IV length %d", c.cipher.Name, len(c.iv))
	}

	c.iterations = kdfParams.IterationCount

	return nil
}
