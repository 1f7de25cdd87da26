package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/drivel-server/services"
	"github.com/upb/drivel-server/utils"
)

// HandleServiceError maps domain errors to HTTP responses.
// Anything that is not a validation failure becomes a 500 whose detail
// carries the underlying failure text.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	if utils.IsValidationError(err) {
		HandleValidationError(w, err, logger)
		return
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_type", string(services.GetErrorType(err))),
		zap.Any("details", services.GetErrorDetails(err)),
	}
	if services.IsExternalError(err) {
		logger.Warn("provider request failed", fields...)
	} else {
		logger.Error("request failed", fields...)
	}

	if err := utils.WriteInternalServerError(w, detailOf(err)); err != nil {
		logger.Error("failed to write internal error response", zap.Error(err))
	}
}

// HandleValidationError writes a 422 listing the rejected fields
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	fields := utils.GetValidationFields(err)
	if len(fields) == 0 {
		fields = []utils.FieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: utils.ErrorTypeValue}}
	}
	if err := utils.WriteUnprocessable(w, fields); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

func detailOf(err error) string {
	var domainErr *services.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Detail()
	}
	return err.Error()
}
