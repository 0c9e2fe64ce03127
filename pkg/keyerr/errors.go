/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keyerr defines the closed set of error kinds returned by the key, pbe, kdf and convert packages.
//
// Every error produced by this module for a recognized failure mode is a *Error carrying a Kind. Callers match
// on kind with errors.Is and the exported sentinels:
//
//	if errors.Is(err, keyerr.ErrAlreadyEncrypted) {
//		...
//	}
//
// or extract the structured context (offending algorithm name, OID) with errors.As.
package keyerr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind int

// Error kinds.
const (
	UnsupportedType Kind = iota + 1
	UnsupportedFormat
	NamedCurveRequired
	StringPassphraseRequired
	InvalidState
	AlreadyEncrypted
	NotEncrypted
	DecryptionPrerequisiteMissing
	UnsupportedKDF
	UnsupportedCipher
	UnsupportedSaltSource
	UnsupportedEncryptionAlgorithm
	KeyTooLongForHash
	UnrecognizedAlgorithmIdentifier
	InvalidKeyData
	InvalidParameter
	DecryptionFailed
)

//nolint:gochecknoglobals
var kindNames = map[Kind]string{
	UnsupportedType:                 "unsupported type",
	UnsupportedFormat:               "unsupported format",
	NamedCurveRequired:              "named curve required",
	StringPassphraseRequired:        "passphrase required",
	InvalidState:                    "invalid state",
	AlreadyEncrypted:                "already encrypted",
	NotEncrypted:                    "not encrypted",
	DecryptionPrerequisiteMissing:   "decryption prerequisite missing",
	UnsupportedKDF:                  "unsupported key derivation function",
	UnsupportedCipher:               "unsupported cipher",
	UnsupportedSaltSource:           "unsupported salt source",
	UnsupportedEncryptionAlgorithm:  "unsupported encryption algorithm",
	KeyTooLongForHash:               "intended key length too long for hash",
	UnrecognizedAlgorithmIdentifier: "unrecognized algorithm identifier",
	InvalidKeyData:                  "invalid key data",
	InvalidParameter:                "invalid parameter",
	DecryptionFailed:                "decryption failed",
}

// String returns the human readable name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Error is the structured error type of this module.
type Error struct {
	Kind Kind
	// Subject is the offending value, e.g. an algorithm name, an OID or a format name. May be empty.
	Subject string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()

	if e.Subject != "" {
		msg += ": " + e.Subject
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error of the same kind. A target carrying a Subject must match it as well, which
// lets callers match a specific algorithm when they need to.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Subject == "" || t.Subject == e.Subject
}

// New returns an error of the given kind about subject.
func New(kind Kind, subject string) error {
	return &Error{Kind: kind, Subject: subject}
}

// Newf returns an error of the given kind with a formatted subject.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Subject: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind wrapping err. It returns nil if err is nil.
func Wrap(kind Kind, subject string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Subject: subject, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// Sentinels for use with errors.Is.
//
//nolint:gochecknoglobals
var (
	ErrUnsupportedType                 = &Error{Kind: UnsupportedType}
	ErrUnsupportedFormat               = &Error{Kind: UnsupportedFormat}
	ErrNamedCurveRequired              = &Error{Kind: NamedCurveRequired}
	ErrStringPassphraseRequired        = &Error{Kind: StringPassphraseRequired}
	ErrInvalidState                    = &Error{Kind: InvalidState}
	ErrAlreadyEncrypted                = &Error{Kind: AlreadyEncrypted}
	ErrNotEncrypted                    = &Error{Kind: NotEncrypted}
	ErrDecryptionPrerequisiteMissing   = &Error{Kind: DecryptionPrerequisiteMissing}
	ErrUnsupportedKDF                  = &Error{Kind: UnsupportedKDF}
	ErrUnsupportedCipher               = &Error{Kind: UnsupportedCipher}
	ErrUnsupportedSaltSource           = &Error{Kind: UnsupportedSaltSource}
	ErrUnsupportedEncryptionAlgorithm  = &Error{Kind: UnsupportedEncryptionAlgorithm}
	ErrKeyTooLongForHash               = &Error{Kind: KeyTooLongForHash}
	ErrUnrecognizedAlgorithmIdentifier = &Error{Kind: UnrecognizedAlgorithmIdentifier}
	ErrInvalidKeyData                  = &Error{Kind: InvalidKeyData}
	ErrInvalidParameter                = &Error{Kind: InvalidParameter}
	ErrDecryptionFailed                = &Error{Kind: DecryptionFailed}
)
