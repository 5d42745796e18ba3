package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/meshmart/meshmart/internal/config"
	orderdomain "github.com/meshmart/meshmart/internal/order/domain"
	paymentdomain "github.com/meshmart/meshmart/internal/payment/domain"
	"github.com/meshmart/meshmart/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-jwt-secret"

type stubPaymentService struct {
	result paymentdomain.ReconcileResult
	err    error
	calls  int
}

func (s *stubPaymentService) Reconcile(ctx context.Context, notif paymentdomain.Notification, raw []byte) (paymentdomain.ReconcileResult, error) {
	s.calls++
	if s.err != nil {
		return paymentdomain.ReconcileResult{}, s.err
	}
	return s.result, nil
}

type stubOrderService struct {
	checkoutResp orderdomain.CheckoutResponse
	checkoutErr  error
	retryErr     error
	lastUserID   snowflake.ID
}

func (s *stubOrderService) Checkout(ctx context.Context, req orderdomain.CheckoutRequest) (orderdomain.CheckoutResponse, error) {
	s.lastUserID = req.UserID
	return s.checkoutResp, s.checkoutErr
}

func (s *stubOrderService) RetryToken(ctx context.Context, userID snowflake.ID, orderID string) (orderdomain.CheckoutResponse, error) {
	s.lastUserID = userID
	if s.retryErr != nil {
		return orderdomain.CheckoutResponse{}, s.retryErr
	}
	return s.checkoutResp, nil
}

func (s *stubOrderService) GetByID(ctx context.Context, userID snowflake.ID, orderID string) (orderdomain.Order, error) {
	return orderdomain.Order{}, orderdomain.ErrNotFound
}

func newTestServer(t *testing.T, orderSvc orderdomain.Service, paymentSvc paymentdomain.Service) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	srv := server.NewServer(server.ServerParams{
		Gin:        server.NewEngine(zap.NewNop(), nil),
		Cfg:        config.Config{AuthJWTSecret: testJWTSecret},
		Log:        zap.NewNop(),
		OrderSvc:   orderSvc,
		PaymentSvc: paymentSvc,
	})
	return srv.Engine()
}

func mintToken(t *testing.T, userID snowflake.ID) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, server.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(engine *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPaymentNotificationResponses(t *testing.T) {
	notif := paymentdomain.Notification{
		OrderID:           "1828374650294831104",
		StatusCode:        "200",
		GrossAmount:       "350",
		SignatureKey:      "sig",
		TransactionStatus: "settlement",
	}
	body, _ := json.Marshal(notif)

	cases := []struct {
		name       string
		svc        *stubPaymentService
		body       []byte
		wantStatus int
		wantType   string
	}{
		{
			name:       "reconciled",
			svc:        &stubPaymentService{result: paymentdomain.ReconcileResult{OrderStatus: orderdomain.StatusPaid}},
			body:       body,
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid signature",
			svc:        &stubPaymentService{err: paymentdomain.ErrInvalidSignature},
			body:       body,
			wantStatus: http.StatusUnauthorized,
			wantType:   "invalid_signature",
		},
		{
			name:       "unknown order",
			svc:        &stubPaymentService{err: orderdomain.ErrNotFound},
			body:       body,
			wantStatus: http.StatusNotFound,
			wantType:   "not_found",
		},
		{
			name:       "incomplete payload",
			svc:        &stubPaymentService{err: paymentdomain.ErrInvalidNotification},
			body:       body,
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
		{
			name:       "malformed json",
			svc:        &stubPaymentService{},
			body:       []byte(`{"order_id":`),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestServer(t, &stubOrderService{}, tc.svc)
			w := doJSON(engine, http.MethodPost, "/api/orders/notification", "", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "ok", resp["status"])
				assert.Equal(t, "PAID", resp["order_status"])
				return
			}
			if tc.wantType != "" {
				var resp struct {
					Error struct {
						Type string `json:"type"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tc.wantType, resp.Error.Type)
			}
			if tc.name == "malformed json" {
				assert.Zero(t, tc.svc.calls, "engine must not see an unparseable payload")
			}
		})
	}
}

func TestCheckoutRequiresBearerToken(t *testing.T) {
	engine := newTestServer(t, &stubOrderService{}, &stubPaymentService{})
	body := []byte(`{"model_ids":["1"]}`)

	w := doJSON(engine, http.MethodPost, "/api/orders/checkout", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/orders/checkout", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutPassesAuthenticatedUser(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	userID := node.Generate()

	orderSvc := &stubOrderService{checkoutResp: orderdomain.CheckoutResponse{
		OrderID:     "42",
		Token:       "gw-token",
		RedirectURL: "https://pay.example/gw-token",
	}}
	engine := newTestServer(t, orderSvc, &stubPaymentService{})

	w := doJSON(engine, http.MethodPost, "/api/orders/checkout", mintToken(t, userID), []byte(`{"model_ids":["1"]}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, userID, orderSvc.lastUserID)

	var resp orderdomain.CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "gw-token", resp.Token)
}

func TestCheckoutGatewayFailureSurfacesOrderID(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	orderSvc := &stubOrderService{
		checkoutResp: orderdomain.CheckoutResponse{OrderID: "1828374650294831104"},
		checkoutErr:  paymentdomain.ErrGatewayUnavailable,
	}
	engine := newTestServer(t, orderSvc, &stubPaymentService{})

	w := doJSON(engine, http.MethodPost, "/api/orders/checkout", mintToken(t, node.Generate()), []byte(`{"model_ids":["1"]}`))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp struct {
		OrderID string `json:"order_id"`
		Error   struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1828374650294831104", resp.OrderID)
	assert.Equal(t, "gateway_unavailable", resp.Error.Type)
}

func TestCheckoutEmptyCartIsBadRequest(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	engine := newTestServer(t, &stubOrderService{}, &stubPaymentService{})
	w := doJSON(engine, http.MethodPost, "/api/orders/checkout", mintToken(t, node.Generate()), []byte(`{"model_ids":[]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetryTokenOnSettledOrderConflicts(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	engine := newTestServer(t, &stubOrderService{retryErr: orderdomain.ErrNotPending}, &stubPaymentService{})
	w := doJSON(engine, http.MethodPost, "/api/orders/42/token", mintToken(t, node.Generate()), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestServer(t, &stubOrderService{}, &stubPaymentService{})
	w := doJSON(engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
