package orders

import (
	"strconv"
	"strings"

	"github.com/racketdesk/stringdesk/internal/models"
)

// ToOrder is the only place where store rows become desk orders: snake_case
// columns, the in_progress spelling and nullable text are resolved here.
func ToOrder(job models.Job) (models.Order, error) {
	status, err := models.ParseStatus(job.Status)
	if err != nil {
		return models.Order{}, err
	}

	serviceType := strings.ToLower(deref(job.ServiceType))
	if serviceType == "" {
		serviceType = models.DefaultServiceType
	}

	return models.Order{
		ID:              strconv.FormatInt(job.ID, 10),
		CreatedAt:       job.CreatedAt,
		Status:          status,
		CustomerName:    job.CustomerName,
		ContactNumber:   job.ContactNumber,
		Email:           deref(job.Email),
		RacketBrand:     job.RacketBrand,
		RacketModel:     job.RacketModel,
		StringType:      deref(job.StringType),
		ServiceType:     serviceType,
		AdditionalNotes: deref(job.AdditionalNotes),
	}, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
