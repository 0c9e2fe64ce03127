/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keycmd

import (
	"crypto"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-keyutil-go/pkg/convert"
	"github.com/hyperledger/aries-keyutil-go/pkg/key"
)

const (
	// hash flag.
	hashFlagName  = "hash"
	hashEnvKey    = "KEYUTIL_HASH"
	hashFlagUsage = "Thumbprint hash. Possible values [sha256] [sha384] [sha512]. Defaults to sha256 if not set." +
		" Alternatively, this can be set with the following environment variable: " + hashEnvKey
)

// InspectCmd returns the inspect command.
func InspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe a key",
		Long:  `Describe a PEM or DER key, including the encryption parameters of an encrypted container`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(cmd); err != nil {
				return err
			}

			data, err := readInput(cmd)
			if err != nil {
				return err
			}

			info, err := convert.Inspect(data)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}

			return writeOutput(cmd, append(out, '\n'))
		},
	}

	cmd.Flags().StringP(inFlagName, inFlagShorthand, "", inFlagUsage)
	cmd.Flags().StringP(outFlagName, outFlagShorthand, "", outFlagUsage)
	cmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)

	return cmd
}

// ThumbprintCmd returns the thumbprint command.
func ThumbprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbprint",
		Short: "Print the JWK thumbprint of a key",
		Long:  `Print the RFC 7638 JWK thumbprint of a key, base64url encoded`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadKey(cmd)
			if err != nil {
				return err
			}

			name, err := getUserSetVar(cmd, hashFlagName, hashEnvKey, true)
			if err != nil {
				return err
			}

			h, err := parseHash(name)
			if err != nil {
				return err
			}

			tp, err := in.key.Thumbprint(h, key.WithPassphrase(in.passphrase))
			if err != nil {
				return err
			}

			return writeOutput(cmd, []byte(base64.RawURLEncoding.EncodeToString(tp)+"\n"))
		},
	}

	createCommonFlags(cmd)
	cmd.Flags().StringP(hashFlagName, "", "", hashFlagUsage)

	return cmd
}

func parseHash(name string) (crypto.Hash, error) {
	switch strings.ToLower(name) {
	case "", "sha256", "sha-256":
		return crypto.SHA256, nil
	case "sha384", "sha-384":
		return crypto.SHA384, nil
	case "sha512", "sha-512":
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("unsupported hash %q", name)
	}
}
