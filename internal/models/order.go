package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	PendingStatus    OrderStatus = "pending"
	InProgressStatus OrderStatus = "in-progress"
	ReadyStatus      OrderStatus = "ready"
	PickedUpStatus   OrderStatus = "picked-up"
)

// legacyInProgress is how the jobs table spells InProgressStatus.
const legacyInProgress = "in_progress"

// StatusSequence is the only order in which a job may move.
var StatusSequence = []OrderStatus{
	PendingStatus,
	InProgressStatus,
	ReadyStatus,
	PickedUpStatus,
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case PendingStatus, InProgressStatus, ReadyStatus, PickedUpStatus:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string { return string(s) }

// DBValue returns the spelling stored in the jobs table.
func (s OrderStatus) DBValue() string {
	if s == InProgressStatus {
		return legacyInProgress
	}
	return string(s)
}

// ParseStatus accepts both the hyphenated and the legacy underscore spelling.
func ParseStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

// Order is one stringing job as seen by the desk.
type Order struct {
	ID              string      `json:"id" yaml:"id"`
	CreatedAt       time.Time   `json:"createdAt" yaml:"createdAt"`
	Status          OrderStatus `json:"status" yaml:"status"`
	CustomerName    string      `json:"customerName" yaml:"customerName"`
	ContactNumber   string      `json:"contactNumber" yaml:"contactNumber"`
	Email           string      `json:"email" yaml:"email,omitempty"`
	RacketBrand     string      `json:"racketBrand" yaml:"racketBrand"`
	RacketModel     string      `json:"racketModel" yaml:"racketModel"`
	StringType      string      `json:"stringType" yaml:"stringType,omitempty"`
	ServiceType     string      `json:"serviceType" yaml:"serviceType"`
	AdditionalNotes string      `json:"additionalNotes" yaml:"additionalNotes,omitempty"`

	RequestedTensionMains *float64 `json:"requestedTensionMains,omitempty" yaml:"requestedTensionMains,omitempty"`
	RequestedTensionCross *float64 `json:"requestedTensionCross,omitempty" yaml:"requestedTensionCross,omitempty"`
	ActualTensionMains    *float64 `json:"actualTensionMains,omitempty" yaml:"actualTensionMains,omitempty"`
	ActualTensionCross    *float64 `json:"actualTensionCross,omitempty" yaml:"actualTensionCross,omitempty"`
}
