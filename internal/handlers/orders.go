package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/racketdesk/stringdesk/internal/customerror"
	"github.com/racketdesk/stringdesk/internal/handlers/schemas"
	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
	"github.com/racketdesk/stringdesk/internal/repository"
)

type OrdersHandler struct {
	OrderStorage repository.OrderStorageRepositoryI
}

func NewOrderHandler(storage repository.OrderStorageRepositoryI) *OrdersHandler {
	return &OrdersHandler{OrderStorage: storage}
}

func (h *OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	rawStoreID := r.URL.Query().Get("storeId")
	if rawStoreID == "" {
		writeError(w, "storeId required", http.StatusBadRequest)
		return
	}
	storeID, err := strconv.ParseInt(rawStoreID, 10, 64)
	if err != nil || storeID <= 0 {
		writeError(w, "storeId must be a positive integer", http.StatusBadRequest)
		return
	}

	jobs, err := h.OrderStorage.GetListByStoreID(r.Context(), storeID)
	if err != nil {
		logger.Log.Error("orders were not found", zap.Int64("store_id", storeID), zap.Error(err))
		writeCustomError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, schemas.DataResponse[any]{Data: jobs})
}

func (h *OrdersHandler) Add(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	order, err := schemas.DecodeCreateOrderRequest(r.Body)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	job, err := h.OrderStorage.Create(r.Context(), order)
	if err != nil {
		logger.Log.Warn(fmt.Sprintf("order was not created, error: %v", err))
		writeCustomError(w, err)
		return
	}

	logger.Log.Info("order created", zap.Int64("id", job.ID), zap.Int64("store_id", job.StoreID))
	writeJSON(w, http.StatusCreated, schemas.DataResponse[any]{Data: job})
}

func (h *OrdersHandler) Patch(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := orderIDFromRequest(r)
	if err != nil {
		writeCustomError(w, err)
		return
	}

	patch, err := schemas.DecodePatchOrderRequest(r.Body)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	job, err := h.OrderStorage.Patch(r.Context(), id, patch)
	if err != nil {
		logger.Log.Warn("order was not updated", zap.Int64("id", id), zap.Error(err))
		writeCustomError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, schemas.DataResponse[any]{Data: job})
}

func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromRequest(r)
	if err != nil {
		writeCustomError(w, err)
		return
	}

	if err := h.OrderStorage.Delete(r.Context(), id); err != nil {
		logger.Log.Warn("order was not deleted", zap.Int64("id", id), zap.Error(err))
		writeCustomError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, schemas.SuccessResponse{Success: true})
}

func orderIDFromRequest(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, customerror.NewInvalidIDError(raw)
	}
	return id, nil
}

func writeRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, schemas.ErrMalformedBody) {
		writeError(w, schemas.ErrMalformedBody.Error(), http.StatusBadRequest)
		logger.Log.Warn("can't parse body", zap.Error(err))
		return
	}
	writeCustomError(w, err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("Error encoding response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, schemas.ErrorResponse{Error: message})
}

func writeCustomError(w http.ResponseWriter, err error) {
	var validationErr *customerror.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, validationErr.GetHTTPCode(), schemas.ErrorResponse{Error: "validation failed", Fields: validationErr.Fields})
		return
	}

	var customErr customerror.CustomError
	if errors.As(err, &customErr) {
		writeError(w, customErr.Error(), customErr.GetHTTPCode())
		return
	}

	writeError(w, err.Error(), http.StatusInternalServerError)
}
