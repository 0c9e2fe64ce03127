/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is keyutil, a command line tool to convert, encrypt and decrypt RSA and EC keys.
package main

import (
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-keyutil-go/cmd/keyutil/keycmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use: "keyutil",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	logger := log.New("keyutil")

	rootCmd.AddCommand(keycmd.ConvertCmd(), keycmd.EncryptCmd(), keycmd.DecryptCmd(), keycmd.InspectCmd(),
		keycmd.ThumbprintCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run keyutil: %s", err)
	}
}
