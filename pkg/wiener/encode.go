package wiener

import (
	encoding_asn1 "encoding/asn1"
	"encoding/base64"
	"encoding/pem"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
	"golang.org/x/crypto/ssh"
)

const (
	pemTypePKIX  = "PUBLIC KEY"
	pemTypePKCS1 = "RSA PUBLIC KEY"
)

var oidRSAEncryption = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

// crypto/x509 stores e in an int and rejects anything larger, while a key
// with a small d has e about the size of N. DER is therefore read and
// written with cryptobyte.

// parsePKCS1PublicKey parses RSAPublicKey ::= SEQUENCE { modulus, publicExponent }.
func parsePKCS1PublicKey(der []byte) (*PublicKey, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return nil, errors.New("malformed PKCS#1 public key")
	}

	pub := &PublicKey{N: new(big.Int), E: new(big.Int)}
	if !seq.ReadASN1Integer(pub.N) || !seq.ReadASN1Integer(pub.E) || !seq.Empty() {
		return nil, errors.New("malformed PKCS#1 public key")
	}
	if pub.N.Sign() <= 0 || pub.E.Sign() <= 0 {
		return nil, errors.New("RSA modulus and exponent must be positive")
	}
	return pub, nil
}

// parsePKIXPublicKey parses a SubjectPublicKeyInfo holding an RSA key.
func parsePKIXPublicKey(der []byte) (*PublicKey, error) {
	input := cryptobyte.String(der)
	var spki, algo cryptobyte.String
	var oid encoding_asn1.ObjectIdentifier
	if !input.ReadASN1(&spki, asn1.SEQUENCE) || !input.Empty() ||
		!spki.ReadASN1(&algo, asn1.SEQUENCE) ||
		!algo.ReadASN1ObjectIdentifier(&oid) {
		return nil, errors.New("malformed PKIX public key")
	}
	if !oid.Equal(oidRSAEncryption) {
		return nil, errors.Errorf("not an RSA public key (algorithm %s)", oid)
	}

	var bits encoding_asn1.BitString
	if !spki.ReadASN1BitString(&bits) || !spki.Empty() {
		return nil, errors.New("malformed PKIX public key")
	}
	return parsePKCS1PublicKey(bits.RightAlign())
}

// EncodePEM encodes pub as a PKIX "PUBLIC KEY" PEM block.
func EncodePEM(pub *PublicKey) ([]byte, error) {
	if err := pub.Validate(); err != nil {
		return nil, err
	}

	var pkcs1 cryptobyte.Builder
	pkcs1.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(pub.N)
		b.AddASN1BigInt(pub.E)
	})
	inner, err := pkcs1.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode PKCS#1 key")
	}

	var spki cryptobyte.Builder
	spki.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidRSAEncryption)
			b.AddASN1NULL()
		})
		b.AddASN1BitString(inner)
	})
	der, err := spki.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode PKIX key")
	}

	return pem.EncodeToMemory(&pem.Block{Type: pemTypePKIX, Bytes: der}), nil
}

// EncodeAuthorizedKey encodes pub as a single "ssh-rsa" authorized_keys line.
// The label, if any, becomes the comment.
func EncodeAuthorizedKey(pub *PublicKey) ([]byte, error) {
	if err := pub.Validate(); err != nil {
		return nil, err
	}

	blob := ssh.Marshal(struct {
		Name string
		E    *big.Int
		N    *big.Int
	}{ssh.KeyAlgoRSA, pub.E, pub.N})

	line := ssh.KeyAlgoRSA + " " + base64.StdEncoding.EncodeToString(blob)
	if pub.Label != "" {
		line += " " + pub.Label
	}
	return []byte(line + "\n"), nil
}
