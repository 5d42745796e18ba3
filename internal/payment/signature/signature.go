package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"github.com/meshmart/meshmart/internal/config"
)

// Verifier validates that a notification was produced by the gateway holding
// the shared server key. The expected digest is SHA-512 over the
// concatenation order_id + status_code + gross_amount + server_key, with
// every part taken as the exact string received on the wire; reformatting a
// numeric field before hashing breaks verification.
type Verifier struct {
	serverKey string
}

func NewVerifier(creds config.Credentials) *Verifier {
	return &Verifier{serverKey: creds.ServerKey}
}

// Verify reports whether provided matches the expected digest. It never
// errors; any malformed input simply fails to match.
func (v *Verifier) Verify(orderID, statusCode, grossAmount, provided string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + v.serverKey))
	expected := hex.EncodeToString(sum[:])
	return hmac.Equal([]byte(expected), []byte(provided))
}
