package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	httperr "github.com/powergen-lab/powergen-etl/internal/core/errors"
	"github.com/powergen-lab/powergen-etl/internal/schema"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgBodyTooLarge    = "Request body exceeds maximum allowed size"
	msgDecodedTooLarge = "Decoded request body exceeds maximum allowed size"
	msgPersistFailed   = "Failed to persist records"
	msgStrictRejected  = "Batch rejected: strict mode forbids invalid or duplicate records"
	msgCountFailed     = "Failed to count records"
	defaultSourceLabel = "request body"
	headerSourceFile   = "X-Source-File"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	h := &handler{svc: s}
	r.POST("/v1/sources/:source/records", h.ingest)
	r.GET("/v1/stats", h.stats)
}

type handler struct {
	svc    *Service
	counts singleflight.Group
}

// ingest handles POST /v1/sources/:source/records. The body is JSONL,
// optionally gzip or zstd encoded.
func (h *handler) ingest(c *gin.Context) {
	req, ierr := h.parseRequest(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	body, ierr := h.readBody(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}
	defer body.Close()

	out, err := h.svc.Load(c.Request.Context(), req, body)
	if err != nil {
		writeError(c, classifyLoadError(err, out))
		return
	}

	c.JSON(http.StatusAccepted, out)
}

func (h *handler) parseRequest(c *gin.Context) (Request, *ingestionError) {
	source := schema.Source(c.Param("source"))
	if _, err := h.svc.registry.Get(source); err != nil {
		slog.Warn("Unknown source in request", "source", source)
		return Request{}, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpUnknownSourceError,
			message:    err.Error(),
			details:    map[string]interface{}{"supported": h.svc.registry.Sources()},
		}
	}

	strict, err := queryBool(c, "strict", h.svc.opts.Strict)
	if err != nil {
		return Request{}, badRequest(err.Error())
	}
	dryRun, err := queryBool(c, "dry_run", false)
	if err != nil {
		return Request{}, badRequest(err.Error())
	}
	runID := c.Query("extraction_run_id")
	if runID != "" {
		if _, err := uuid.Parse(runID); err != nil {
			return Request{}, badRequest("query parameter extraction_run_id must be a UUID")
		}
	}

	label := c.GetHeader(headerSourceFile)
	if label == "" {
		label = defaultSourceLabel
	}

	return Request{
		Source: source,
		Label:  label,
		Strict: strict,
		RunID:  runID,
		DryRun: dryRun,
	}, nil
}

// readBody enforces the size limit on the raw body, then decodes it.
func (h *handler) readBody(c *gin.Context) (io.ReadCloser, *ingestionError) {
	maxBytes := int64(h.svc.opts.MaxBodySizeMB) * 1024 * 1024
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpBodyTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": h.svc.opts.MaxBodySizeMB,
			},
		}
	}

	compression, err := ParseCompression(c.GetHeader("Content-Encoding"))
	if err != nil {
		return nil, badJSONL(err.Error())
	}
	body, err := Decompress(bytes.NewReader(bodyBytes), compression)
	if err != nil {
		return nil, badJSONL(err.Error())
	}
	return LimitDecoded(body, int64(h.svc.opts.MaxDecodedMB)*1024*1024), nil
}

// stats handles GET /v1/stats. Concurrent requests share one count query.
func (h *handler) stats(c *gin.Context) {
	tables := make([]string, 0, 3)
	for _, source := range h.svc.registry.Sources() {
		s, err := h.svc.registry.Get(source)
		if err != nil {
			continue
		}
		tables = append(tables, s.Table)
	}

	if h.svc.store == nil {
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpStorageError,
			message:    msgCountFailed,
		})
		return
	}

	v, err, _ := h.counts.Do("counts", func() (interface{}, error) {
		return h.svc.store.RecordCounts(c.Request.Context(), tables)
	})
	if err != nil {
		slog.Error("Failed to count records", "error", err)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpStorageError,
			message:    msgCountFailed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tables": v})
}

func classifyLoadError(err error, out *Outcome) *ingestionError {
	var lineErr *v1.LineError
	var readErr *v1.ReadError
	switch {
	case errors.Is(err, ErrInputTooLarge):
		return &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpBodyTooLargeError,
			message:    msgDecodedTooLarge,
		}
	case errors.Is(err, schema.ErrUnknownSource):
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpUnknownSourceError,
			message:    err.Error(),
		}
	case errors.As(err, &lineErr):
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonlError,
			message:    lineErr.Error(),
			details:    map[string]interface{}{"line": lineErr.Line},
		}
	case errors.As(err, &readErr):
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonlError,
			message:    readErr.Error(),
			details:    map[string]interface{}{"after_line": readErr.Line},
		}
	case errors.Is(err, ErrStrictRejected):
		var details interface{}
		if out != nil {
			details = out.Report
		}
		return &ingestionError{
			statusCode: http.StatusUnprocessableEntity,
			errorType:  httperr.HttpStrictRejectedError,
			message:    msgStrictRejected,
			details:    details,
		}
	default:
		slog.Error("Failed to load batch", "error", err)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpStorageError,
			message:    msgPersistFailed,
		}
	}
}

func queryBool(c *gin.Context, name string, def bool) (bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("query parameter " + name + " must be a boolean")
	}
	return v, nil
}

func badJSONL(msg string) *ingestionError {
	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidJsonlError,
		message:    msg,
	}
}

func badRequest(msg string) *ingestionError {
	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidRequestError,
		message:    msg,
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
