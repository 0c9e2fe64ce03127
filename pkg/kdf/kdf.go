/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package kdf implements the password based key derivation functions PBKDF1 and PBKDF2 of RFC 8018 section 5.
package kdf

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/hyperledger/aries-keyutil-go/pkg/keyerr"
	"github.com/hyperledger/aries-keyutil-go/pkg/primitive"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

// blockIndexLen is the length of the big-endian block index INT(i) appended to the salt in PBKDF2.
const blockIndexLen = 4

// PBKDF1 derives a dkLen byte key by hashing password||salt iterationCount times with the named hash.
// dkLen may not exceed the hash output size.
func PBKDF1(prims primitive.Primitives, password, salt []byte, iterationCount, dkLen int,
	hashName string) ([]byte, error) {
	h, err := checkParams(iterationCount, dkLen, hashName)
	if err != nil {
		return nil, err
	}

	if dkLen > h.Size {
		return nil, keyerr.Newf(keyerr.KeyTooLongForHash, "%d bytes requested from %s", dkLen, hashName)
	}

	t := make([]byte, 0, len(password)+len(salt))
	t = append(t, password...)
	t = append(t, salt...)

	for i := 0; i < iterationCount; i++ {
		t, err = prims.Hash(hashName, t)
		if err != nil {
			return nil, err
		}
	}

	return t[:dkLen], nil
}

// PBKDF2 derives a dkLen byte key from password and salt using HMAC with the named hash as the pseudorandom
// function.
//
// The ceil(dkLen/hLen) output blocks are independent and are computed concurrently. Block i is always written at
// offset i*hLen and the final block is truncated to the remaining length.
func PBKDF2(prims primitive.Primitives, password, salt []byte, iterationCount, dkLen int,
	hashName string) ([]byte, error) {
	h, err := checkParams(iterationCount, dkLen, hashName)
	if err != nil {
		return nil, err
	}

	hLen := h.Size

	if uint64(dkLen) > uint64(math.MaxUint32)*uint64(hLen) {
		return nil, keyerr.Newf(keyerr.InvalidParameter, "derived key length %d", dkLen)
	}

	l := (dkLen + hLen - 1) / hLen
	r := dkLen - (l-1)*hLen

	dk := make([]byte, dkLen)
	errs := make([]error, l)

	var wg sync.WaitGroup

	for i := 0; i < l; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			t, e := pbkdf2Block(prims, password, salt, iterationCount, hashName, uint32(i+1))
			if e != nil {
				errs[i] = e

				return
			}

			n := hLen
			if i == l-1 {
				n = r
			}

			copy(dk[i*hLen:i*hLen+n], t[:n])
		}(i)
	}

	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	return dk, nil
}

// pbkdf2Block computes F(P, S, c, i) = U_1 ^ U_2 ^ ... ^ U_c.
func pbkdf2Block(prims primitive.Primitives, password, salt []byte, iterationCount int, hashName string,
	index uint32) ([]byte, error) {
	seed := make([]byte, len(salt)+blockIndexLen)
	copy(seed, salt)
	binary.BigEndian.PutUint32(seed[len(salt):], index)

	u, err := prims.HMAC(hashName, password, seed)
	if err != nil {
		return nil, err
	}

	t := make([]byte, len(u))
	copy(t, u)

	for j := 1; j < iterationCount; j++ {
		u, err = prims.HMAC(hashName, password, u)
		if err != nil {
			return nil, err
		}

		for k := range t {
			t[k] ^= u[k]
		}
	}

	return t, nil
}

func checkParams(iterationCount, dkLen int, hashName string) (registry.Hash, error) {
	if iterationCount < 1 {
		return registry.Hash{}, keyerr.Newf(keyerr.InvalidParameter, "iteration count %d", iterationCount)
	}

	if dkLen < 1 {
		return registry.Hash{}, keyerr.Newf(keyerr.InvalidParameter, "derived key length %d", dkLen)
	}

	h, ok := registry.LookupHash(hashName)
	if !ok {
		return registry.Hash{}, keyerr.New(keyerr.UnsupportedType, "hash "+hashName)
	}

	return h, nil
}
