/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keycmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-keyutil-go/internal/logutil"
	"github.com/hyperledger/aries-keyutil-go/pkg/convert"
	"github.com/hyperledger/aries-keyutil-go/pkg/key"
	"github.com/hyperledger/aries-keyutil-go/pkg/registry"
)

const (
	// new passphrase flag.
	newPassphraseFlagName  = "new-passphrase"
	newPassphraseEnvKey    = "KEYUTIL_NEW_PASSPHRASE" // nolint:gosec
	newPassphraseFlagUsage = "Passphrase to encrypt the key with." +
		" Alternatively, this can be set with the following environment variable: " + newPassphraseEnvKey

	// algorithm flag.
	algorithmFlagName = "algorithm"
	algorithmEnvKey   = "KEYUTIL_ALGORITHM"

	// cipher flag.
	cipherFlagName = "cipher"
	cipherEnvKey   = "KEYUTIL_CIPHER"

	// prf flag.
	prfFlagName = "prf"
	prfEnvKey   = "KEYUTIL_PRF"

	// iterations flag.
	iterationsFlagName  = "iterations"
	iterationsEnvKey    = "KEYUTIL_ITERATIONS"
	iterationsFlagUsage = "PBKDF iteration count. Defaults to 2048 if not set." +
		" Alternatively, this can be set with the following environment variable: " + iterationsEnvKey
)

func choiceUsage(what string, choices []string, def, envKey string) string {
	usage := what + ". Possible values [" + strings.Join(choices, "] [") + "]."

	if def != "" {
		usage += " Defaults to " + def + " if not set."
	}

	return usage + " Alternatively, this can be set with the following environment variable: " + envKey
}

// EncryptCmd returns the encrypt command.
func EncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a private key",
		Long:  `Encrypt a private key into a PKCS#8 EncryptedPrivateKeyInfo container`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadKey(cmd)
			if err != nil {
				return err
			}

			params, err := encryptParams(cmd)
			if err != nil {
				return err
			}

			if in.key.IsEncrypted() {
				if err = in.key.Decrypt(in.passphrase); err != nil {
					logutil.LogError(logger, cmd.Name(), "decrypt input", err)

					return errors.Wrap(err, "decrypt input key")
				}
			}

			if err = in.key.EncryptWithParams(params); err != nil {
				return err
			}

			return exportBinary(cmd, in.key)
		},
	}

	createCommonFlags(cmd)
	cmd.Flags().StringP(outFormatFlagName, "", "", outFormatFlagUsage)
	cmd.Flags().StringP(newPassphraseFlagName, "", "", newPassphraseFlagUsage)
	cmd.Flags().StringP(algorithmFlagName, "", "",
		choiceUsage("Encryption scheme", registry.SchemeNames(), registry.PBES2, algorithmEnvKey))
	cmd.Flags().StringP(cipherFlagName, "", "",
		choiceUsage("PBES2 cipher", registry.CipherNames(), registry.AES256CBC, cipherEnvKey))
	cmd.Flags().StringP(prfFlagName, "", "",
		choiceUsage("PBKDF2 pseudorandom function", registry.PRFNames(), registry.HMACWithSHA256, prfEnvKey))
	cmd.Flags().StringP(iterationsFlagName, "", "", iterationsFlagUsage)
	cmd.Flags().StringP(configFlagName, "", "", configFlagUsage)

	return cmd
}

// DecryptCmd returns the decrypt command.
func DecryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a private key",
		Long:  `Decrypt a PKCS#8 EncryptedPrivateKeyInfo container`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadKey(cmd)
			if err != nil {
				return err
			}

			if err = in.key.Decrypt(in.passphrase); err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			out, err := in.key.Export(format)
			if err != nil {
				return err
			}

			return writeOutput(cmd, out)
		},
	}

	createCommonFlags(cmd)
	cmd.Flags().StringP(outFormatFlagName, "", "", outFormatFlagUsage)

	return cmd
}

// encryptParams merges the configuration file with the encryption flags, flags taking precedence.
func encryptParams(cmd *cobra.Command) (*key.EncryptParams, error) {
	params, err := loadEncryptParams(cmd)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		flag, env string
		dst       *string
	}{
		{newPassphraseFlagName, newPassphraseEnvKey, &params.Passphrase},
		{algorithmFlagName, algorithmEnvKey, &params.Algorithm},
		{cipherFlagName, cipherEnvKey, &params.Cipher},
		{prfFlagName, prfEnvKey, &params.PRF},
	} {
		v, e := getUserSetVar(cmd, f.flag, f.env, true)
		if e != nil {
			return nil, e
		}

		if v != "" {
			*f.dst = v
		}
	}

	iterations, err := getUserSetVar(cmd, iterationsFlagName, iterationsEnvKey, true)
	if err != nil {
		return nil, err
	}

	if iterations != "" {
		if params.IterationCount, err = strconv.Atoi(iterations); err != nil {
			return nil, errors.Wrapf(err, "invalid %s", iterationsFlagName)
		}
	}

	if params.Passphrase == "" {
		return nil, fmt.Errorf("neither %s (command line flag) nor %s (environment variable) have been set",
			newPassphraseFlagName, newPassphraseEnvKey)
	}

	return params, nil
}

func exportBinary(cmd *cobra.Command, k *key.Key) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	if format != convert.DER && format != convert.PEM {
		return fmt.Errorf("encrypted keys can only be written as %s or %s", convert.DER, convert.PEM)
	}

	out, err := k.Export(format)
	if err != nil {
		return err
	}

	return writeOutput(cmd, out)
}
