package wechatpay

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthSchema is the Authorization scheme for merchant requests.
const AuthSchema = "WECHATPAY2-SHA256-RSA2048"

// Signer builds Authorization headers for API v3 requests.
type Signer struct {
	MerchantID string
	SerialNo   string

	key   *rsa.PrivateKey
	now   func() time.Time
	nonce func() string
}

// NewSigner creates a signer for the merchant certificate identified by serialNo.
func NewSigner(merchantID, serialNo string, key *rsa.PrivateKey) *Signer {
	return &Signer{
		MerchantID: merchantID,
		SerialNo:   serialNo,
		key:        key,
		now:        time.Now,
		nonce:      newNonce,
	}
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ParsePrivateKey decodes a PEM encoded RSA key in PKCS#8 or PKCS#1 form.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, want RSA", parsed)
	}
	return key, nil
}

// signatureMessage is the string the provider verifies: one field per line,
// each terminated by \n, including the last.
func signatureMessage(method, canonicalURL, timestamp, nonce, body string) string {
	return method + "\n" + canonicalURL + "\n" + timestamp + "\n" + nonce + "\n" + body + "\n"
}

// Sign returns the base64 RSA-SHA256 signature of message.
func (s *Signer) Sign(message string) (string, error) {
	digest := sha256.Sum256([]byte(message))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Authorization returns the header value for a request. canonicalURL is the
// path plus query string, body is empty for GET.
func (s *Signer) Authorization(method, canonicalURL, body string) (string, error) {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	nonce := s.nonce()

	signature, err := s.Sign(signatureMessage(method, canonicalURL, timestamp, nonce, body))
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}

	return fmt.Sprintf(`%s mchid="%s",nonce_str="%s",signature="%s",timestamp="%s",serial_no="%s"`,
		AuthSchema, s.MerchantID, nonce, signature, timestamp, s.SerialNo), nil
}
