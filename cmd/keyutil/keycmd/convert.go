/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keycmd

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-keyutil-go/pkg/convert"
	"github.com/hyperledger/aries-keyutil-go/pkg/key"
)

// ConvertCmd returns the convert command.
func ConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a key",
		Long:  `Convert a key between the jwk, der, pem and oct formats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadKey(cmd)
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			opts, err := exportOptions(cmd, in, format)
			if err != nil {
				return err
			}

			out, err := in.key.Export(format, opts...)
			if err != nil {
				return err
			}

			return writeOutput(cmd, out)
		},
	}

	createCommonFlags(cmd)
	cmd.Flags().StringP(outFormatFlagName, "", "", outFormatFlagUsage)
	cmd.Flags().StringP(typeFlagName, "", "", typeFlagUsage)
	cmd.Flags().BoolP(compactFlagName, "", false, compactFlagUsage)

	return cmd
}

func outputFormat(cmd *cobra.Command) (convert.Format, error) {
	name, err := getUserSetVar(cmd, outFormatFlagName, outFormatEnvKey, true)
	if err != nil {
		return "", err
	}

	if name == "" {
		return convert.PEM, nil
	}

	return convert.ParseFormat(name)
}

func exportOptions(cmd *cobra.Command, in *input, format convert.Format) ([]key.ExportOption, error) {
	var opts []key.ExportOption

	if in.passphrase != "" {
		opts = append(opts, key.WithPassphrase(in.passphrase))
	}

	typeName, err := getUserSetVar(cmd, typeFlagName, typeEnvKey, true)
	if err != nil {
		return nil, err
	}

	if typeName != "" {
		t, e := convert.ParseKeyType(typeName)
		if e != nil {
			return nil, e
		}

		opts = append(opts, key.WithType(t))
	}

	compact, err := getUserSetBool(cmd, compactFlagName, compactEnvKey)
	if err != nil {
		return nil, err
	}

	if compact {
		opts = append(opts, key.WithCompact())
	}

	if format != convert.Oct {
		return opts, nil
	}

	enc, err := octEncoding(cmd)
	if err != nil {
		return nil, err
	}

	return append(opts, key.WithOctOutput(enc)), nil
}
