/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testdata

import _ "embed" // required for tests only

// Passphrase protecting every encrypted sample key.
const Passphrase = "correct"

// Sample key files generated with OpenSSL, to be used for tests only.
// nolint:gochecknoglobals
var (
	//go:embed keys/rsa.pem
	RSAPrivatePEM []byte
	//go:embed keys/rsa_pub.pem
	RSAPublicPEM []byte
	//go:embed keys/rsa_jwk.json
	RSAPrivateJWK []byte
	//go:embed keys/rsa_pub_jwk.json
	RSAPublicJWK []byte
	//go:embed keys/rsa_enc_aes.pem
	RSAEncryptedAESPEM []byte
	//go:embed keys/ec.pem
	ECPrivatePEM []byte
	//go:embed keys/ec_pub.pem
	ECPublicPEM []byte
	//go:embed keys/ec_jwk.json
	ECPrivateJWK []byte
	//go:embed keys/ec_pub_jwk.json
	ECPublicJWK []byte
	//go:embed keys/ec_priv.hex
	ECPrivateOctHex string
	//go:embed keys/ec_pub.hex
	ECPublicOctHex string
	//go:embed keys/ec_enc_3des.pem
	ECEncrypted3DESPEM []byte
	//go:embed keys/ec_enc_md5des.pem
	ECEncryptedMD5DESPEM []byte
	//go:embed keys/ec_enc_sha1des.pem
	ECEncryptedSHA1DESPEM []byte
)
