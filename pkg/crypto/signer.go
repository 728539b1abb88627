package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ledger/internal/domain"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Signer produces HMAC-SHA256 digests over statement snapshots so a client
// can detect a statement that was altered after it left the ledger.
type Signer struct {
	secretKey []byte
	logger    *slog.Logger
}

func NewSigner(secretKey string, logger *slog.Logger) *Signer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Signer{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

func (s *Signer) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(data []byte, signature string) error {
	expected := s.Sign(data)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		s.logger.Warn("Signature verification failed", slog.String("received", signature))
		return ErrInvalidSignature
	}
	return nil
}

// SignStatement covers the account number, every entry in order and the
// two-decimal balance.
func (s *Signer) SignStatement(accountNumber int, st domain.Statement) string {
	return s.Sign(statementPayload(accountNumber, st))
}

func (s *Signer) VerifyStatement(accountNumber int, st domain.Statement, signature string) error {
	return s.Verify(statementPayload(accountNumber, st), signature)
}

func statementPayload(accountNumber int, st domain.Statement) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", accountNumber)
	for _, entry := range st.Entries {
		b.WriteString(entry)
	}
	b.WriteString(st.FormattedBalance())
	return []byte(b.String())
}
