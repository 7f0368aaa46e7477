package api

import (
	"github.com/gin-gonic/gin"

	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
)

// Service exposes the source contracts over HTTP.
type Service struct {
	registry  *schema.Registry
	validator *validation.Validator
}

// NewService creates a new schema API service.
func NewService(reg *schema.Registry, val *validation.Validator) *Service {
	return &Service{
		registry:  reg,
		validator: val,
	}
}

// RegisterRoutes registers the schema API routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	handler := NewHandler(s.registry, s.validator)

	schemas := r.Group("/v1/schemas")
	{
		schemas.GET("", handler.HandleList)
		schemas.GET("/:source", handler.HandleGet)
		schemas.POST("/:source/validate", handler.HandleValidate)
	}
}
