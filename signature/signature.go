// Package signature issues and verifies HMAC download tokens. A token binds a
// video ID and format to an issue time so download links handed to the
// front-end cannot be replayed indefinitely or rewritten for other videos.
package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yttmp3/config"
)

var (
	// ErrInvalidToken means the token is malformed or the HMAC does not match
	ErrInvalidToken = errors.New("invalid download token")

	// ErrExpiredToken means the token was valid but past its TTL
	ErrExpiredToken = errors.New("download token expired")
)

// Signer creates and checks download tokens with a shared secret.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// New creates a Signer. An empty secret disables signing; callers should not
// construct a Signer in that case.
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Token is an issued download token and its components.
type Token struct {
	Signature string `json:"sig"`
	Timestamp int64  `json:"ts"`
	Nonce     string `json:"nonce"`
}

// Issue creates a token for a video ID and output format.
func (s *Signer) Issue(videoID, format string) (*Token, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ts := s.now().Unix()
	nonceHex := hex.EncodeToString(nonce)
	return &Token{
		Signature: s.sign(videoID, format, ts, nonceHex),
		Timestamp: ts,
		Nonce:     nonceHex,
	}, nil
}

// Verify checks a token against a video ID and format. The comparison is
// constant-time; expiry is checked only after the HMAC matches.
func (s *Signer) Verify(videoID, format string, tok *Token) error {
	if tok == nil || tok.Signature == "" {
		return ErrInvalidToken
	}

	expected := s.sign(videoID, format, tok.Timestamp, tok.Nonce)
	if !hmac.Equal([]byte(expected), []byte(tok.Signature)) {
		return ErrInvalidToken
	}

	issued := time.Unix(tok.Timestamp, 0)
	if s.now().Sub(issued) > config.SignatureTTL {
		return ErrExpiredToken
	}
	return nil
}

// Encode packs a token into a single URL-safe string: sig.ts.nonce.
func (t *Token) Encode() string {
	return strings.Join([]string{t.Signature, strconv.FormatInt(t.Timestamp, 10), t.Nonce}, ".")
}

// Decode unpacks a token produced by Encode.
func Decode(encoded string) (*Token, error) {
	parts := strings.Split(encoded, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Token{Signature: parts[0], Timestamp: ts, Nonce: parts[2]}, nil
}

func (s *Signer) sign(videoID, format string, ts int64, nonce string) string {
	payload := fmt.Sprintf("%s|%s|%d|%s", videoID, format, ts, nonce)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
