package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/meshmart/meshmart/internal/order/domain"
	paymentdomain "github.com/meshmart/meshmart/internal/payment/domain"
)

type checkoutRequest struct {
	ModelIDs []string `json:"model_ids"`
}

func (s *Server) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if len(req.ModelIDs) == 0 {
		AbortWithError(c, orderdomain.ErrEmptyCart)
		return
	}

	resp, err := s.orderSvc.Checkout(c.Request.Context(), orderdomain.CheckoutRequest{
		UserID:   userID,
		ModelIDs: req.ModelIDs,
	})
	if err != nil {
		s.recordCheckout("error")
		// When the order was created but the gateway call failed, the
		// response carries the order id so the client can hit the
		// retry-token endpoint.
		if resp.OrderID != "" && errors.Is(err, paymentdomain.ErrGatewayUnavailable) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"order_id": resp.OrderID,
				"error": errorPayload{
					Type:    "gateway_unavailable",
					Message: "payment gateway unavailable",
				},
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	s.recordCheckout("ok")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) RetryOrderToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.orderSvc.RetryToken(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetOrderByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	order, err := s.orderSvc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// HandlePaymentNotification receives the gateway's asynchronous payment
// notification. A 200 tells the gateway to stop redelivering; anything the
// engine reports as transient stays non-200 so the gateway retries.
func (s *Server) HandlePaymentNotification(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var notif paymentdomain.Notification
	if err := json.Unmarshal(payload, &notif); err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidNotification)
		return
	}

	result, err := s.paymentSvc.Reconcile(c.Request.Context(), notif, payload)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"order_status": strings.ToUpper(string(result.OrderStatus)),
	})
}

func (s *Server) recordCheckout(result string) {
	if s.obsMetrics != nil {
		s.obsMetrics.RecordCheckout(result)
	}
}
