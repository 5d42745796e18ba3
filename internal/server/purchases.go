package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListPurchases(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	purchases, err := s.purchaseSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
