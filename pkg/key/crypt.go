/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package key

import (
	"github.com/mitchellh/mapstructure"

	"github.com/hyperledger/aries-keyutil-go/internal/logutil"
	"github.com/hyperledger/aries-keyutil-go/pkg/convert"
	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/pbe"
)

// EncryptParams selects the passphrase and scheme for encrypting a private key. Empty fields take the pbe defaults:
// pbes2, aes256-cbc, hmacWithSHA256 and 2048 iterations.
type EncryptParams struct {
	Passphrase     string `mapstructure:"passphrase"`
	Algorithm      string `mapstructure:"algorithm"`
	Cipher         string `mapstructure:"cipher"`
	PRF            string `mapstructure:"prf"`
	IterationCount int    `mapstructure:"iterationCount"`
}

// EncryptParamsFromMap decodes EncryptParams from a generic map, such as a parsed configuration section. Numbers
// given as strings are accepted; unknown keys are rejected.
func EncryptParamsFromMap(m map[string]interface{}) (*EncryptParams, error) {
	p := &EncryptParams{}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, keyerr.Wrap(keyerr.InvalidParameter, "encryption parameters", err)
	}

	if err = dec.Decode(m); err != nil {
		return nil, keyerr.Wrap(keyerr.InvalidParameter, "encryption parameters", err)
	}

	return p, nil
}

func (p *EncryptParams) options() *convert.EncryptOptions {
	return &convert.EncryptOptions{
		Passphrase: p.Passphrase,
		Options: pbe.Options{
			Algorithm:      p.Algorithm,
			Cipher:         p.Cipher,
			PRF:            p.PRF,
			IterationCount: p.IterationCount,
		},
	}
}

// Encrypt encrypts the key with passphrase using the default parameters.
func (k *Key) Encrypt(passphrase string) error {
	return k.EncryptWithParams(&EncryptParams{Passphrase: passphrase})
}

// EncryptWithParams replaces the key's representations with an encrypted PKCS#8 container. Of two concurrent calls
// on the same Key only one succeeds, the other fails with AlreadyEncrypted.
func (k *Key) EncryptWithParams(p *EncryptParams) error {
	s := k.st.Load()

	if s.encrypted {
		return keyerr.New(keyerr.AlreadyEncrypted, "")
	}

	if p == nil || p.Passphrase == "" {
		return keyerr.New(keyerr.StringPassphraseRequired, "encryption")
	}

	if k.keyType != Private {
		return keyerr.New(keyerr.UnsupportedType, "encrypted public key")
	}

	jwk, err := k.materialize(s, "")
	if err != nil {
		return err
	}

	der, err := k.conv.FromJWK(convert.DER, jwk, &convert.Context{Encrypt: p.options()})
	if err != nil {
		return err
	}

	if !k.replaceUnencrypted(&state{der: der, encrypted: true}) {
		return keyerr.New(keyerr.AlreadyEncrypted, "")
	}

	logutil.LogDebug(logger, "key", "encrypt", logutil.KV("type", k.keyType), logutil.KV("size", len(der)))

	return nil
}

// replaceUnencrypted stores next unless the key was encrypted meanwhile. Unencrypted states only differ by cached
// representations of the same key, so a state changed by memoization is replaced as well.
func (k *Key) replaceUnencrypted(next *state) bool {
	for {
		cur := k.st.Load()
		if cur.encrypted {
			return false
		}

		if k.st.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Decrypt opens the encrypted container with passphrase and keeps the key as an unencrypted JWK. Of two concurrent
// calls on the same Key only one succeeds, the other fails with NotEncrypted.
//
// A wrong passphrase is detected only when the cipher padding or the decrypted structure is invalid.
func (k *Key) Decrypt(passphrase string) error {
	s := k.st.Load()

	if !s.encrypted {
		return keyerr.New(keyerr.NotEncrypted, "")
	}

	if !s.hasDER() || passphrase == "" {
		return keyerr.New(keyerr.DecryptionPrerequisiteMissing, "")
	}

	jwk, err := k.conv.ToJWK(convert.DER, s.der, &convert.Context{Passphrase: passphrase})
	if err != nil {
		return err
	}

	if !k.st.CompareAndSwap(s, &state{jwk: jwk}) {
		if !k.st.Load().encrypted {
			return keyerr.New(keyerr.NotEncrypted, "")
		}

		return keyerr.New(keyerr.InvalidState, "key re-encrypted during decryption")
	}

	logutil.LogDebug(logger, "key", "decrypt", logutil.KV("type", k.keyType))

	return nil
}
