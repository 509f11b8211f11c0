package schemas

import (
	"io"

	"github.com/racketdesk/stringdesk/internal/models"
)

type CreateOrderRequest struct {
	StoreID         int64   `json:"storeId" validate:"required,gt=0"`
	CustomerName    string  `json:"customerName" validate:"required"`
	ContactNumber   string  `json:"contactNumber" validate:"required,min=3"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	RacketBrand     string  `json:"racketBrand" validate:"required"`
	RacketModel     string  `json:"racketModel" validate:"required"`
	StringType      *string `json:"stringType,omitempty"`
	ServiceType     *string `json:"serviceType,omitempty"`
	AdditionalNotes *string `json:"additionalNotes,omitempty"`
}

// Normalize treats an empty email as absent. A blank but non-empty email is
// still validated and rejected.
func (req CreateOrderRequest) Normalize() CreateOrderRequest {
	if req.Email != nil && *req.Email == "" {
		req.Email = nil
	}
	return req
}

// Validate checks the whole request and returns a *customerror.ValidationError
// describing every failing field.
func (req CreateOrderRequest) Validate() (models.NewOrder, error) {
	return req.validate(nil)
}

// DecodeCreateOrderRequest reads and validates a create body. Wrongly typed
// fields are reported together with every other failing field.
func DecodeCreateOrderRequest(body io.Reader) (models.NewOrder, error) {
	var req CreateOrderRequest
	typeErrors, err := decodeFields(body, &req)
	if err != nil {
		return models.NewOrder{}, err
	}
	return req.validate(typeErrors)
}

func (req CreateOrderRequest) validate(typeErrors map[string]string) (models.NewOrder, error) {
	req = req.Normalize()
	if err := mergeFieldErrors(validateStruct(req), typeErrors); err != nil {
		return models.NewOrder{}, err
	}

	serviceType := models.DefaultServiceType
	if req.ServiceType != nil {
		serviceType = *req.ServiceType
	}

	return models.NewOrder{
		StoreID:         req.StoreID,
		CustomerName:    req.CustomerName,
		ContactNumber:   req.ContactNumber,
		Email:           req.Email,
		RacketBrand:     req.RacketBrand,
		RacketModel:     req.RacketModel,
		StringType:      req.StringType,
		ServiceType:     serviceType,
		AdditionalNotes: req.AdditionalNotes,
	}, nil
}

type PatchOrderRequest struct {
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=pending in-progress ready picked-up"`
	AdditionalNotes *string `json:"additionalNotes,omitempty"`
}

func (req PatchOrderRequest) Validate() (models.OrderPatch, error) {
	return req.validate(nil)
}

func DecodePatchOrderRequest(body io.Reader) (models.OrderPatch, error) {
	var req PatchOrderRequest
	typeErrors, err := decodeFields(body, &req)
	if err != nil {
		return models.OrderPatch{}, err
	}
	return req.validate(typeErrors)
}

func (req PatchOrderRequest) validate(typeErrors map[string]string) (models.OrderPatch, error) {
	if err := mergeFieldErrors(validateStruct(req), typeErrors); err != nil {
		return models.OrderPatch{}, err
	}

	patch := models.OrderPatch{AdditionalNotes: req.AdditionalNotes}
	if req.Status != nil {
		status := models.OrderStatus(*req.Status)
		patch.Status = &status
	}
	return patch, nil
}

func NewPatchOrderRequest(patch models.OrderPatch) PatchOrderRequest {
	req := PatchOrderRequest{AdditionalNotes: patch.AdditionalNotes}
	if patch.Status != nil {
		status := string(*patch.Status)
		req.Status = &status
	}
	return req
}
