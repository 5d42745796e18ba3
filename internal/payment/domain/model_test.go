package domain_test

import (
	"testing"

	orderdomain "github.com/meshmart/meshmart/internal/order/domain"
	"github.com/meshmart/meshmart/internal/payment/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	cases := []struct {
		transactionStatus string
		fraudStatus       string
		want              orderdomain.Status
	}{
		{"capture", "challenge", orderdomain.StatusPending},
		{"capture", "accept", orderdomain.StatusPaid},
		{"capture", "", orderdomain.StatusPending},
		{"settlement", "", orderdomain.StatusPaid},
		{"settlement", "accept", orderdomain.StatusPaid},
		{"cancel", "", orderdomain.StatusFailed},
		{"deny", "", orderdomain.StatusFailed},
		{"expire", "", orderdomain.StatusFailed},
		{"pending", "", orderdomain.StatusPending},
		{"refund", "", orderdomain.StatusPending},
		{"", "", orderdomain.StatusPending},
	}

	for _, tc := range cases {
		got := domain.MapStatus(tc.transactionStatus, tc.fraudStatus)
		assert.Equalf(t, tc.want, got, "MapStatus(%q, %q)", tc.transactionStatus, tc.fraudStatus)
	}
}

func TestNotificationValidate(t *testing.T) {
	valid := domain.Notification{
		OrderID:           "42",
		StatusCode:        "200",
		GrossAmount:       "350",
		SignatureKey:      "abc",
		TransactionStatus: "settlement",
	}
	assert.NoError(t, valid.Validate())

	for _, mutate := range []func(*domain.Notification){
		func(n *domain.Notification) { n.OrderID = "" },
		func(n *domain.Notification) { n.StatusCode = "" },
		func(n *domain.Notification) { n.GrossAmount = "" },
		func(n *domain.Notification) { n.SignatureKey = "" },
		func(n *domain.Notification) { n.TransactionStatus = "" },
	} {
		n := valid
		mutate(&n)
		assert.ErrorIs(t, n.Validate(), domain.ErrInvalidNotification)
	}
}
