package models

import "time"

const DefaultServiceType = "standard"

// Job is a row of jobs_view as the order store serves it.
type Job struct {
	ID              int64     `json:"id"`
	StoreID         int64     `json:"store_id"`
	CustomerID      int64     `json:"customer_id"`
	RacketID        int64     `json:"racket_id"`
	CreatedAt       time.Time `json:"created_at"`
	Status          string    `json:"status"`
	CustomerName    string    `json:"customer_name"`
	ContactNumber   string    `json:"contact_number"`
	Email           *string   `json:"email"`
	RacketBrand     string    `json:"racket_brand"`
	RacketModel     string    `json:"racket_model"`
	StringType      *string   `json:"string_type"`
	ServiceType     *string   `json:"service_type"`
	AdditionalNotes *string   `json:"additional_notes"`
}

// NewOrder describes a job to be created for a store.
type NewOrder struct {
	StoreID         int64
	CustomerName    string
	ContactNumber   string
	Email           *string
	RacketBrand     string
	RacketModel     string
	StringType      *string
	ServiceType     string
	AdditionalNotes *string
}

// OrderPatch carries only the fields a PATCH is allowed to touch.
type OrderPatch struct {
	Status          *OrderStatus
	AdditionalNotes *string
}

func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.AdditionalNotes == nil
}
