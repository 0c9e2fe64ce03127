/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package primitive provides the hash, HMAC, random and block cipher operations consumed by the kdf and pbe
// packages. Algorithms are addressed by their registry names.
package primitive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des" //nolint:gosec // DES is required by PBES1 and PBES2 des-ede3-cbc
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // MD5 is required by pbeWithMD5AndDES-CBC
	"fmt"
	"hash"

	"github.com/google/tink/go/subtle"
	"github.com/google/tink/go/subtle/random"

	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

// Primitives is the set of cryptographic operations used by key derivation and password based encryption.
type Primitives interface {
	// Hash returns the digest of data with the named hash.
	Hash(name string, data []byte) ([]byte, error)
	// HMAC returns the HMAC of data under key with the named hash.
	HMAC(name string, key, data []byte) ([]byte, error)
	// RandomBytes returns n bytes from a cryptographically secure source.
	RandomBytes(n int) ([]byte, error)
	// Encrypt pads plaintext (PKCS#7) and encrypts it with the named cipher in CBC mode.
	Encrypt(cipherName string, key, iv, plaintext []byte) ([]byte, error)
	// Decrypt decrypts ciphertext with the named cipher in CBC mode and removes the PKCS#7 padding.
	Decrypt(cipherName string, key, iv, ciphertext []byte) ([]byte, error)
}

// tink names of the SHA family.
//
//nolint:gochecknoglobals
var tinkHashNames = map[string]string{
	registry.SHA1:   "SHA1",
	registry.SHA256: "SHA256",
	registry.SHA384: "SHA384",
	registry.SHA512: "SHA512",
}

// Software implements Primitives with Go's crypto packages and tink's random source.
type Software struct{}

// New returns the software Primitives implementation.
func New() *Software {
	return &Software{}
}

// HashFunc returns the constructor of the named hash.
func HashFunc(name string) (func() hash.Hash, error) {
	if name == registry.MD5 {
		return md5.New, nil
	}

	tinkName, ok := tinkHashNames[name]
	if !ok {
		return nil, keyerr.New(keyerr.UnsupportedType, "hash "+name)
	}

	h := subtle.GetHashFunc(tinkName)
	if h == nil {
		return nil, keyerr.New(keyerr.UnsupportedType, "hash "+name)
	}

	return h, nil
}

// Hash returns the digest of data with the named hash.
func (s *Software) Hash(name string, data []byte) ([]byte, error) {
	h, err := HashFunc(name)
	if err != nil {
		return nil, err
	}

	d := h()
	d.Write(data) //nolint:errcheck // hash.Hash writes never fail

	return d.Sum(nil), nil
}

// HMAC returns the HMAC of data under key with the named hash.
func (s *Software) HMAC(name string, key, data []byte) ([]byte, error) {
	h, err := HashFunc(name)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(h, key)
	mac.Write(data) //nolint:errcheck // hash.Hash writes never fail

	return mac.Sum(nil), nil
}

// RandomBytes returns n random bytes.
func (s *Software) RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, keyerr.Newf(keyerr.InvalidParameter, "random length %d", n)
	}

	return random.GetRandomBytes(uint32(n)), nil
}

// Encrypt pads plaintext and encrypts it in CBC mode.
func (s *Software) Encrypt(cipherName string, key, iv, plaintext []byte) ([]byte, error) {
	block, err := newBlock(cipherName, key, iv)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext, block.BlockSize())
	out := make([]byte, len(padded))

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return out, nil
}

// Decrypt decrypts ciphertext in CBC mode and removes the padding.
func (s *Software) Decrypt(cipherName string, key, iv, ciphertext []byte) ([]byte, error) {
	block, err := newBlock(cipherName, key, iv)
	if err != nil {
		return nil, err
	}

	bs := block.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, keyerr.Newf(keyerr.DecryptionFailed, "ciphertext length %d is not a multiple of %d",
			len(ciphertext), bs)
	}

	out := make([]byte, len(ciphertext))

	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	return unpad(out, bs)
}

func newBlock(cipherName string, key, iv []byte) (cipher.Block, error) {
	var (
		block cipher.Block
		err   error
	)

	switch cipherName {
	case registry.DESCBC:
		block, err = des.NewCipher(key)
	case registry.DESEDE3CBC:
		block, err = des.NewTripleDESCipher(key)
	case registry.AES128CBC, registry.AES256CBC:
		c, _ := registry.LookupCipher(cipherName) //nolint:errcheck // both names are registered

		if len(key) != c.KeyLength {
			return nil, keyerr.Newf(keyerr.InvalidParameter, "%s key length %d", cipherName, len(key))
		}

		block, err = aes.NewCipher(key)
	default:
		return nil, keyerr.New(keyerr.UnsupportedCipher, cipherName)
	}

	if err != nil {
		return nil, keyerr.Wrap(keyerr.InvalidParameter, cipherName, err)
	}

	if len(iv) != block.BlockSize() {
		return nil, keyerr.Newf(keyerr.InvalidParameter, "%s iv length %d", cipherName, len(iv))
	}

	return block, nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize

	out := make([]byte, len(data), len(data)+n)
	copy(out, data)

	for i := 0; i < n; i++ {
		out = append(out, byte(n))
	}

	return out
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, keyerr.Wrap(keyerr.DecryptionFailed, "", fmt.Errorf("invalid padding length %d", n))
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, keyerr.Wrap(keyerr.DecryptionFailed, "", fmt.Errorf("invalid padding"))
		}
	}

	return data[:len(data)-n], nil
}
