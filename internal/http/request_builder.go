package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/middleware"
)

// ResponseBuilder writes the API envelopes for a request.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends data wrapped in a SuccessResponse.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	b.c.JSON(statusCode, dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now(),
	})
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Error sends a translated error response.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.ErrorWithNotification(statusCode, messageKey, err, model.Notification{})
}

// ErrorWithNotification is Error plus the shopper notification produced
// by the failed action.
func (b *ResponseBuilder) ErrorWithNotification(statusCode int, messageKey string, err error, n model.Notification) {
	b.abort(statusCode, b.newError(statusCode, messageKey).WithNotification(n), err)
}

// ValidationError sends a 400 that names the offending field.
func (b *ResponseBuilder) ValidationError(verr *dto.ValidationError) {
	resp := b.newError(http.StatusBadRequest, i18n.ErrKeyInvalidRequest)
	resp.Details = map[string]string{verr.Field: verr.Message}
	b.abort(http.StatusBadRequest, resp, verr)
}

func (b *ResponseBuilder) newError(statusCode int, messageKey string) dto.ErrorResponse {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	return dto.NewError(dto.ErrCodeFromStatus(statusCode), message).
		WithRequestID(middleware.GetRequestID(b.c))
}

// abort writes resp and hands err to the error handler middleware.
func (b *ResponseBuilder) abort(statusCode int, resp dto.ErrorResponse, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(statusCode, resp)
}

// Validator is implemented by request types that can check themselves.
type Validator interface {
	Validate() error
}

// BuildRequest binds the JSON body into a new T.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BuildRequestAndValidate binds the JSON body and validates it if T
// implements Validator.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req, err := BuildRequest[T](c)
	if err != nil {
		return nil, err
	}
	if validator, ok := any(req).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}
