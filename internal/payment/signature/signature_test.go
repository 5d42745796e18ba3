package signature_test

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/meshmart/meshmart/internal/config"
	"github.com/meshmart/meshmart/internal/payment/signature"
	"github.com/stretchr/testify/assert"
)

func digest(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestVerifyValidSignature(t *testing.T) {
	v := signature.NewVerifier(config.Credentials{
		Environment: config.GatewayEnvSandbox,
		ServerKey:   "SB-server-key",
	})

	cases := []struct {
		name        string
		orderID     string
		statusCode  string
		grossAmount string
	}{
		{"plain", "1828374650294831104", "200", "350"},
		{"decimal amount", "1828374650294831104", "200", "350000.00"},
		{"unusual status code", "99", "407", "0.01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := digest(tc.orderID, tc.statusCode, tc.grossAmount, "SB-server-key")
			assert.True(t, v.Verify(tc.orderID, tc.statusCode, tc.grossAmount, sig))
		})
	}
}

func TestVerifyRejectsMutations(t *testing.T) {
	const key = "SB-server-key"
	v := signature.NewVerifier(config.Credentials{ServerKey: key})

	orderID, statusCode, grossAmount := "1828374650294831104", "200", "350"
	sig := digest(orderID, statusCode, grossAmount, key)

	assert.False(t, v.Verify("1828374650294831105", statusCode, grossAmount, sig), "mutated order id")
	assert.False(t, v.Verify(orderID, "201", grossAmount, sig), "mutated status code")
	assert.False(t, v.Verify(orderID, statusCode, "351", sig), "mutated amount")
	mutated := []byte(sig)
	if mutated[len(mutated)-1] == '0' {
		mutated[len(mutated)-1] = '1'
	} else {
		mutated[len(mutated)-1] = '0'
	}
	assert.False(t, v.Verify(orderID, statusCode, grossAmount, string(mutated)), "mutated signature")
	assert.False(t, v.Verify(orderID, statusCode, grossAmount, ""), "empty signature")
}

func TestVerifyAmountIsNotReformatted(t *testing.T) {
	const key = "SB-server-key"
	v := signature.NewVerifier(config.Credentials{ServerKey: key})

	// The gateway signed "350000.00"; verifying against "350000" must fail.
	sig := digest("42", "200", "350000.00", key)
	assert.True(t, v.Verify("42", "200", "350000.00", sig))
	assert.False(t, v.Verify("42", "200", "350000", sig))
}

func TestVerifyUsesConfiguredEnvironmentKey(t *testing.T) {
	cfg := config.GatewayConfig{
		Environment:         config.GatewayEnvProduction,
		ServerKeySandbox:    "SB-key",
		ServerKeyProduction: "PR-key",
	}
	v := signature.NewVerifier(cfg.Resolve())

	sig := digest("42", "200", "100", "PR-key")
	assert.True(t, v.Verify("42", "200", "100", sig))

	sandboxSig := digest("42", "200", "100", "SB-key")
	assert.False(t, v.Verify("42", "200", "100", sandboxSig))
}
