/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keycmd implements the keyutil commands: convert, encrypt, decrypt, inspect and thumbprint.
package keycmd

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger/aries-keyutil-go/internal/logutil"
	"github.com/hyperledger/aries-keyutil-go/pkg/convert"
	"github.com/hyperledger/aries-keyutil-go/pkg/key"
)

const (
	// input file flag.
	inFlagName      = "in"
	inEnvKey        = "KEYUTIL_IN"
	inFlagShorthand = "i"
	inFlagUsage     = "Input key file, or - for stdin." +
		" Alternatively, this can be set with the following environment variable: " + inEnvKey

	// input format flag.
	inFormatFlagName  = "in-format"
	inFormatEnvKey    = "KEYUTIL_IN_FORMAT"
	inFormatFlagUsage = "Input format. Possible values [jwk] [der] [pem] [oct]. Detected from the content if not set." +
		" Alternatively, this can be set with the following environment variable: " + inFormatEnvKey

	// output file flag.
	outFlagName      = "out"
	outEnvKey        = "KEYUTIL_OUT"
	outFlagShorthand = "o"
	outFlagUsage     = "Output file. Defaults to stdout if not set." +
		" Alternatively, this can be set with the following environment variable: " + outEnvKey

	// output format flag.
	outFormatFlagName  = "out-format"
	outFormatEnvKey    = "KEYUTIL_OUT_FORMAT"
	outFormatFlagUsage = "Output format. Possible values [jwk] [der] [pem] [oct]. Defaults to pem if not set." +
		" Alternatively, this can be set with the following environment variable: " + outFormatEnvKey

	// named curve flag.
	curveFlagName  = "curve"
	curveEnvKey    = "KEYUTIL_CURVE"
	curveFlagUsage = "Named curve of an oct input key. Possible values [P-256] [P-384] [P-521]." +
		" Alternatively, this can be set with the following environment variable: " + curveEnvKey

	// oct encoding flag.
	octEncodingFlagName  = "oct-encoding"
	octEncodingEnvKey    = "KEYUTIL_OCT_ENCODING"
	octEncodingFlagUsage = "Encoding of oct input and output. Possible values [hex] [binary] [multibase]." +
		" Defaults to hex if not set." +
		" Alternatively, this can be set with the following environment variable: " + octEncodingEnvKey

	// passphrase flag.
	passphraseFlagName      = "passphrase"
	passphraseEnvKey        = "KEYUTIL_PASSPHRASE" // nolint:gosec
	passphraseFlagShorthand = "p"
	passphraseFlagUsage     = "Passphrase of an encrypted input key." +
		" Alternatively, this can be set with the following environment variable: " + passphraseEnvKey

	// key type flag.
	typeFlagName  = "type"
	typeEnvKey    = "KEYUTIL_TYPE"
	typeFlagUsage = "Output key type. Possible values [public] [private]. Defaults to the input key type." +
		" Alternatively, this can be set with the following environment variable: " + typeEnvKey

	// compact flag.
	compactFlagName  = "compact"
	compactEnvKey    = "KEYUTIL_COMPACT"
	compactFlagUsage = "Emit compressed EC points in oct and public der/pem output." +
		" Alternatively, this can be set with the following environment variable: " + compactEnvKey

	// config file flag.
	configFlagName  = "config"
	configEnvKey    = "KEYUTIL_CONFIG"
	configFlagUsage = "Configuration file (yaml or json). Its encryption section sets default encryption parameters." +
		" Alternatively, this can be set with the following environment variable: " + configEnvKey

	// log level flag.
	logLevelFlagName  = "log-level"
	logLevelEnvKey    = "KEYUTIL_LOG_LEVEL"
	logLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + logLevelEnvKey

	stdinPath      = "-"
	configSection  = "encryption"
	outputFileMode = 0o600
)

var logger = log.New("keyutil/cmd")

func createCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(inFlagName, inFlagShorthand, "", inFlagUsage)
	cmd.Flags().StringP(inFormatFlagName, "", "", inFormatFlagUsage)
	cmd.Flags().StringP(outFlagName, outFlagShorthand, "", outFlagUsage)
	cmd.Flags().StringP(curveFlagName, "", "", curveFlagUsage)
	cmd.Flags().StringP(octEncodingFlagName, "", "", octEncodingFlagUsage)
	cmd.Flags().StringP(passphraseFlagName, passphraseFlagShorthand, "", passphraseFlagUsage)
	cmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)
}

// input is a key read from the command line.
type input struct {
	key        *key.Key
	passphrase string
}

func prepare(cmd *cobra.Command) error {
	logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey, true)
	if err != nil {
		return err
	}

	return setLogLevel(logLevel)
}

func loadKey(cmd *cobra.Command) (*input, error) {
	if err := prepare(cmd); err != nil {
		return nil, err
	}

	data, err := readInput(cmd)
	if err != nil {
		return nil, err
	}

	formatName, err := getUserSetVar(cmd, inFormatFlagName, inFormatEnvKey, true)
	if err != nil {
		return nil, err
	}

	format := detectFormat(data)

	if formatName != "" {
		if format, err = convert.ParseFormat(formatName); err != nil {
			return nil, err
		}
	}

	passphrase, err := getUserSetVar(cmd, passphraseFlagName, passphraseEnvKey, true)
	if err != nil {
		return nil, err
	}

	var opts []key.Option

	if format == convert.Oct {
		if data, err = decodeOctInput(cmd, data); err != nil {
			return nil, err
		}

		curve, e := getUserSetVar(cmd, curveFlagName, curveEnvKey, true)
		if e != nil {
			return nil, e
		}

		opts = append(opts, key.WithNamedCurve(curve))
	}

	k, err := key.New(format, data, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s key", format)
	}

	logutil.LogDebug(logger, cmd.Name(), "load", logutil.KV("format", format), logutil.KV("type", k.Type()),
		logutil.KV("encrypted", k.IsEncrypted()))

	return &input{key: k, passphrase: passphrase}, nil
}

func readInput(cmd *cobra.Command) ([]byte, error) {
	path, err := getUserSetVar(cmd, inFlagName, inEnvKey, false)
	if err != nil {
		return nil, err
	}

	if path == stdinPath {
		data, e := io.ReadAll(cmd.InOrStdin())

		return data, errors.Wrap(e, "read stdin")
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	return data, nil
}

func detectFormat(data []byte) convert.Format {
	trimmed := bytes.TrimSpace(data)

	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		return convert.JWK
	case bytes.HasPrefix(trimmed, []byte("-----BEGIN")):
		return convert.PEM
	default:
		return convert.DER
	}
}

func octEncoding(cmd *cobra.Command) (convert.OctOutput, error) {
	enc, err := getUserSetVar(cmd, octEncodingFlagName, octEncodingEnvKey, true)
	if err != nil {
		return "", err
	}

	if enc == "" {
		return convert.OctHex, nil
	}

	return convert.OctOutput(enc), nil
}

func decodeOctInput(cmd *cobra.Command, data []byte) ([]byte, error) {
	enc, err := octEncoding(cmd)
	if err != nil {
		return nil, err
	}

	if enc != convert.OctBinary {
		data = bytes.TrimSpace(data)
	}

	return convert.DecodeOct(data, enc)
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	path, err := getUserSetVar(cmd, outFlagName, outEnvKey, true)
	if err != nil {
		return err
	}

	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)

		return errors.Wrap(err, "write stdout")
	}

	if err = os.WriteFile(path, data, outputFileMode); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	logutil.LogInfo(logger, cmd.Name(), "write", logutil.KV("path", path))

	return nil
}

// loadEncryptParams reads the encryption section of the configuration file, if any.
func loadEncryptParams(cmd *cobra.Command) (*key.EncryptParams, error) {
	path, err := getUserSetVar(cmd, configFlagName, configEnvKey, true)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return &key.EncryptParams{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err = v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	params, err := key.EncryptParamsFromMap(v.GetStringMap(configSection))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	return params, nil
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", errors.Wrapf(err, "%s flag not found", flagName)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func getUserSetBool(cmd *cobra.Command, flagName, envKey string) (bool, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetBool(flagName)
		if err != nil {
			return false, errors.Wrapf(err, "%s flag not found", flagName)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)
	if !isSet {
		return false, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s", envKey)
	}

	return b, nil
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return errors.Wrapf(err, "failed to parse log level '%s'", logLevel)
		}

		log.SetLevel("", level)

		logger.Debugf("logger level set to %s", logLevel)
	}

	return nil
}
