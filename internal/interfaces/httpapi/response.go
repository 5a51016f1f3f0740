package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/hockey-indexer/internal/usecase"
)

var errUnauthorized = errors.New("unauthorized")

const (
	googleAPIVersion = "2.0"
	errorDomain      = "hockey-indexer"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, internalError.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    internalError.HTTPStatus,
			Message: msg,
			Status:  internalError.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  internalError.Reason,
					Message: msg,
				},
			},
		},
	})
}

var (
	internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

	// classErrors exposes the diagnostic class of a rejected receipt as the reason.
	classErrors = map[usecase.Class]mappedError{
		usecase.ClassMalformedInput:    {HTTPStatus: http.StatusBadRequest, Reason: "malformedInput", Status: "INVALID_ARGUMENT"},
		usecase.ClassUnknownMethod:     {HTTPStatus: http.StatusBadRequest, Reason: "unknownMethod", Status: "INVALID_ARGUMENT"},
		usecase.ClassUnknownReference:  {HTTPStatus: http.StatusNotFound, Reason: "unknownReference", Status: "NOT_FOUND"},
		usecase.ClassInvalidTransition: {HTTPStatus: http.StatusConflict, Reason: "invalidTransition", Status: "FAILED_PRECONDITION"},
		usecase.ClassStore:             {HTTPStatus: http.StatusServiceUnavailable, Reason: "storeUnavailable", Status: "UNAVAILABLE"},
	}
)

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return mappedError{
			HTTPStatus: http.StatusRequestEntityTooLarge,
			Reason:     "payloadTooLarge",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, errUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	}

	// Classify folds unrecognized errors into the store class; only a
	// reported store outage is a 503 here.
	class := usecase.Classify(err)
	if class == usecase.ClassStore && !errors.Is(err, usecase.ErrDependencyUnavailable) {
		return internalError
	}
	if mapped, ok := classErrors[class]; ok {
		return mapped
	}
	return internalError
}
