package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	assetdomain "github.com/meshmart/meshmart/internal/asset/domain"
)

type createAssetRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

func (s *Server) CreateAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	asset, err := s.assetSvc.Create(c.Request.Context(), assetdomain.CreateAssetRequest{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (s *Server) GetAssetByID(c *gin.Context) {
	asset, err := s.assetSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (s *Server) ListAssets(c *gin.Context) {
	assets, err := s.assetSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": assets})
}
