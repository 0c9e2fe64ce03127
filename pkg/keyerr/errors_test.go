/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keyerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	require.EqualError(t, New(AlreadyEncrypted, ""), "already encrypted")
	require.EqualError(t, New(UnsupportedCipher, "rc2-cbc"), "unsupported cipher: rc2-cbc")
	require.EqualError(t, Newf(UnrecognizedAlgorithmIdentifier, "oid %s", "1.2.3"),
		"unrecognized algorithm identifier: oid 1.2.3")
	require.EqualError(t, Wrap(InvalidKeyData, "pem", errors.New("no block")), "invalid key data: pem: no block")
	require.Equal(t, "unknown error kind 99", Kind(99).String())
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("export failed: %w", New(UnsupportedCipher, "rc2-cbc"))

	require.True(t, errors.Is(err, ErrUnsupportedCipher))
	require.True(t, errors.Is(err, &Error{Kind: UnsupportedCipher, Subject: "rc2-cbc"}))
	require.False(t, errors.Is(err, &Error{Kind: UnsupportedCipher, Subject: "bf-cbc"}))
	require.False(t, errors.Is(err, ErrUnsupportedKDF))
	require.False(t, errors.Is(err, errors.New("unsupported cipher: rc2-cbc")))
}

func TestWrap(t *testing.T) {
	require.NoError(t, Wrap(DecryptionFailed, "", nil))

	cause := errors.New("bad padding")
	err := Wrap(DecryptionFailed, "des-ede3-cbc", cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, NotEncrypted, KindOf(fmt.Errorf("decrypt: %w", ErrNotEncrypted)))
	require.Equal(t, Kind(0), KindOf(errors.New("plain")))
	require.Equal(t, Kind(0), KindOf(nil))
}
