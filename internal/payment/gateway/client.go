package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meshmart/meshmart/internal/config"
	"github.com/meshmart/meshmart/internal/payment/domain"
	"go.uber.org/zap"
)

// Client talks to the gateway's Snap transaction API. It holds no local
// state; every failure surfaces to the caller as ErrGatewayUnavailable so
// checkout can be reported as failed rather than half-committed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serverKey  string
	log        *zap.Logger
}

func NewClient(creds config.Credentials, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(creds.BaseURL, "/"),
		serverKey:  creds.ServerKey,
		log:        log.Named("payment.gateway"),
	}
}

type transactionRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

func (c *Client) CreateTransaction(ctx context.Context, orderID string, grossAmount int64) (domain.GatewayTransaction, error) {
	body, err := json.Marshal(transactionRequest{
		TransactionDetails: transactionDetails{
			OrderID:     orderID,
			GrossAmount: grossAmount,
		},
	})
	if err != nil {
		return domain.GatewayTransaction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return domain.GatewayTransaction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("gateway transaction request failed", zap.String("order_id", orderID), zap.Error(err))
		return domain.GatewayTransaction{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.GatewayTransaction{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("gateway rejected transaction",
			zap.String("order_id", orderID),
			zap.Int("status", resp.StatusCode),
		)
		return domain.GatewayTransaction{}, fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	var tx domain.GatewayTransaction
	if err := json.Unmarshal(payload, &tx); err != nil {
		return domain.GatewayTransaction{}, fmt.Errorf("%w: malformed response", domain.ErrGatewayUnavailable)
	}
	if strings.TrimSpace(tx.Token) == "" {
		return domain.GatewayTransaction{}, fmt.Errorf("%w: empty token", domain.ErrGatewayUnavailable)
	}

	return tx, nil
}
