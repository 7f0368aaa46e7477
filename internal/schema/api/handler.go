package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	httperr "github.com/powergen-lab/powergen-etl/internal/core/errors"
	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
)

// maxRecordBytes bounds the body of a single-record validation request.
const maxRecordBytes = 1 << 20

// Handler handles schema HTTP requests.
type Handler struct {
	registry  *schema.Registry
	validator *validation.Validator
}

// NewHandler creates a new schema API handler.
func NewHandler(reg *schema.Registry, val *validation.Validator) *Handler {
	return &Handler{
		registry:  reg,
		validator: val,
	}
}

// FieldResponse describes one field contract.
type FieldResponse struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Rule     string `json:"rule,omitempty"`
	Required bool   `json:"required"`
}

// SchemaResponse is the response body for schema operations.
type SchemaResponse struct {
	Source       string          `json:"source"`
	Table        string          `json:"table"`
	Columns      []string        `json:"columns"`
	DuplicateKey []string        `json:"duplicate_key"`
	Fields       []FieldResponse `json:"fields"`
	Fingerprint  string          `json:"fingerprint"`
}

// ValidateResponse is the verdict for one record.
type ValidateResponse struct {
	Source string   `json:"source"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// HandleList handles GET /v1/schemas.
func (h *Handler) HandleList(c *gin.Context) {
	sources := h.registry.Sources()
	responses := make([]*SchemaResponse, 0, len(sources))
	for _, source := range sources {
		s, err := h.registry.Get(source)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{ErrorType: httperr.HttpInternalError, Message: err.Error()})
			return
		}
		responses = append(responses, toResponse(s))
	}

	c.JSON(http.StatusOK, responses)
}

// HandleGet handles GET /v1/schemas/{source}.
func (h *Handler) HandleGet(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(s))
}

// HandleValidate handles POST /v1/schemas/{source}/validate. The body is one
// JSON record, already harmonized; nothing is stored.
func (h *Handler) HandleValidate(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRecordBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{ErrorType: httperr.HttpInvalidJsonError, Message: "failed to read request body"})
		return
	}
	if len(data) > maxRecordBytes {
		c.JSON(http.StatusRequestEntityTooLarge, httperr.ErrorResponse{ErrorType: httperr.HttpBodyTooLargeError, Message: "record exceeds 1 MiB"})
		return
	}

	record, err := v1.DecodeRecord(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{ErrorType: httperr.HttpInvalidJsonError, Message: err.Error()})
		return
	}

	res := h.validator.Validate(record, s)
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Source: string(s.Source),
		Valid:  res.Valid,
		Errors: errs,
	})
}

func (h *Handler) lookup(c *gin.Context) (*schema.Schema, bool) {
	s, err := h.registry.Get(schema.Source(c.Param("source")))
	if err != nil {
		var unknown *schema.UnknownSourceError
		if errors.As(err, &unknown) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnknownSourceError,
				Message:   err.Error(),
				Details:   gin.H{"supported": h.registry.Sources()},
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{ErrorType: httperr.HttpInternalError, Message: err.Error()})
		return nil, false
	}
	return s, true
}

func toResponse(s *schema.Schema) *SchemaResponse {
	fields := make([]FieldResponse, 0, len(s.Required)+len(s.Optional))
	for _, f := range s.Required {
		fields = append(fields, FieldResponse{Name: f.Name, Type: string(f.Spec.Type), Rule: string(f.Spec.Rule), Required: true})
	}
	for _, f := range s.Optional {
		fields = append(fields, FieldResponse{Name: f.Name, Type: string(f.Spec.Type), Rule: string(f.Spec.Rule)})
	}

	return &SchemaResponse{
		Source:       string(s.Source),
		Table:        s.Table,
		Columns:      s.Columns,
		DuplicateKey: s.DuplicateKey,
		Fields:       fields,
		Fingerprint:  s.Fingerprint,
	}
}
