package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmasatrya/airfare/internal/cache"
	"github.com/dharmasatrya/airfare/internal/ingest"
	"github.com/dharmasatrya/airfare/internal/models"
	"github.com/dharmasatrya/airfare/internal/query"
)

type TicketsHandler struct {
	ingester *ingest.Ingester
	cache    cache.Cache
}

func NewTicketsHandler(ing *ingest.Ingester, c cache.Cache) *TicketsHandler {
	return &TicketsHandler{
		ingester: ing,
		cache:    c,
	}
}

func (h *TicketsHandler) Register(g *echo.Group) {
	g.POST("/tickets", h.Tickets)
	g.POST("/tickets/batch", h.Batch)
}

// Tickets normalizes one uploaded document. The document is either the raw
// request body or a multipart field named "file".
func (h *TicketsHandler) Tickets(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	req, mode, policy, err := h.bindRequest(c)
	if err != nil {
		return h.errorJSON(c, err)
	}

	data, err := h.readDocument(c)
	if err != nil {
		return h.errorJSON(c, err)
	}

	key := cache.GenerateKey(data, req)
	if cached, found := h.cache.Get(ctx, key); found {
		cached.Metadata.CacheHit = true
		cached.Metadata.ParseTimeMs = time.Since(startTime).Milliseconds()
		return c.JSON(http.StatusOK, cached)
	}

	result, err := h.ingester.IngestBytes(ctx, data, ingest.Request{Mode: mode, Policy: policy})
	if err != nil {
		return h.errorJSON(c, err)
	}

	resp := result.Response(req, startTime)
	if err := h.cache.Set(ctx, key, resp); err != nil {
		zap.L().Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}

	return c.JSON(http.StatusOK, resp)
}

// Batch normalizes every multipart "files" part independently.
func (h *TicketsHandler) Batch(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	req, mode, policy, err := h.bindRequest(c)
	if err != nil {
		return h.errorJSON(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return h.errorJSON(c, models.ErrMissingDocument)
	}
	files := form.File["files"]
	if len(files) == 0 {
		return h.errorJSON(c, models.ErrMissingDocument)
	}

	docs := make([]ingest.Document, 0, len(files))
	for _, fh := range files {
		data, err := h.readPart(fh)
		if err != nil {
			return h.errorJSON(c, err)
		}
		docs = append(docs, ingest.Document{Name: fh.Filename, Data: data})
	}

	items, err := h.ingester.IngestBatch(ctx, docs, ingest.Request{Mode: mode, Policy: policy})
	if err != nil {
		return h.errorJSON(c, err)
	}

	resp := models.BatchResponse{
		Documents: len(items),
		Results:   make([]models.BatchEntry, len(items)),
	}
	for i, item := range items {
		entry := models.BatchEntry{Name: item.Name}
		if item.Err != nil {
			_, errResp := classifyError(item.Err)
			entry.Error = &errResp
			resp.Failed++
		} else {
			entry.Response = item.Result.Response(req, startTime)
			resp.Succeeded++
		}
		resp.Results[i] = entry
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *TicketsHandler) bindRequest(c echo.Context) (models.TicketsRequest, models.QueryMode, models.Policy, error) {
	var req models.TicketsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return req, "", "", models.ValidationError("invalid query parameters: " + err.Error())
	}

	mode, policy, err := req.Validate(h.ingester.Config().Policy)
	if err != nil {
		return req, "", "", err
	}
	if !query.ValidSortKey(req.SortBy) {
		return req, "", "", models.ErrInvalidSortKey
	}

	return req, mode, policy, nil
}

func (h *TicketsHandler) readDocument(c echo.Context) ([]byte, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, models.ErrMissingDocument
		}
		return h.readPart(fh)
	}

	body := c.Request().Body
	if body == nil {
		return nil, models.ErrMissingDocument
	}
	defer body.Close()

	data, err := h.ingester.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, models.ErrMissingDocument
	}
	return data, nil
}

func (h *TicketsHandler) readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return h.ingester.ReadAll(f)
}

func (h *TicketsHandler) errorJSON(c echo.Context, err error) error {
	status, resp := classifyError(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("tickets request failed", zap.Error(err))
	}
	return c.JSON(status, resp)
}

func classifyError(err error) (int, models.ErrorResponse) {
	var (
		validation models.ValidationError
		malformed  *models.MalformedDocumentError
		missing    *models.MissingAttributeError
		badStamp   *models.TimestampParseError
		itinerary  *models.ItineraryError
		empty      *models.EmptyInputError
	)

	switch {
	case errors.Is(err, models.ErrTooLarge):
		return errorResponse(http.StatusRequestEntityTooLarge, "document_too_large", err)
	case errors.As(err, &validation):
		return errorResponse(http.StatusBadRequest, "validation_error", err)
	case errors.As(err, &itinerary), errors.As(err, &malformed), errors.As(err, &missing), errors.As(err, &badStamp):
		return errorResponse(http.StatusUnprocessableEntity, "invalid_document", err)
	case errors.As(err, &empty):
		return errorResponse(http.StatusUnprocessableEntity, "empty_input", err)
	case errors.Is(err, context.DeadlineExceeded):
		return errorResponse(http.StatusGatewayTimeout, "timeout", err)
	default:
		return errorResponse(http.StatusInternalServerError, "ingest_error", err)
	}
}

func errorResponse(status int, code string, err error) (int, models.ErrorResponse) {
	return status, models.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    status,
	}
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
