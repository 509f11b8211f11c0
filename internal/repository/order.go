package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racketdesk/stringdesk/internal/config/db"
	"github.com/racketdesk/stringdesk/internal/customerror"
	"github.com/racketdesk/stringdesk/internal/models"
	"github.com/racketdesk/stringdesk/internal/retry"
)

const jobColumns = `id, store_id, customer_id, racket_id, created_at, status, customer_name, contact_number, email, racket_brand, racket_model, string_type, service_type, additional_notes`

type OrderRepository struct {
	db *db.DB
}

type OrderStorageRepositoryI interface {
	Create(ctx context.Context, order models.NewOrder) (*models.Job, error)
	GetListByStoreID(ctx context.Context, storeID int64) ([]models.Job, error)
	Patch(ctx context.Context, id int64, patch models.OrderPatch) (*models.Job, error)
	Delete(ctx context.Context, id int64) error
}

func NewOrderRepository(dbObj *db.DB) *OrderRepository {
	return &OrderRepository{db: dbObj}
}

// Create stores the customer, the racket and the job in one transaction.
// A customer is matched on store, full name and contact number.
func (repository *OrderRepository) Create(ctx context.Context, order models.NewOrder) (*models.Job, error) {
	queryCustomer := `INSERT INTO customers (store_id, full_name, contact_number, email) VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, full_name, contact_number) DO UPDATE SET email = COALESCE(customers.email, EXCLUDED.email)
		RETURNING id`
	queryRacket := `INSERT INTO rackets (store_id, customer_id, brand, model, string_type) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	queryJob := `INSERT INTO jobs (store_id, customer_id, racket_id, service_type, additional_notes, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	job, err := retry.DoRetryWithResult(ctx, func() (*models.Job, error) {
		return repository.inTx(ctx, func(tx pgx.Tx) (*models.Job, error) {
			var customerID, racketID, jobID int64

			err := tx.QueryRow(ctx, queryCustomer, order.StoreID, order.CustomerName, order.ContactNumber, order.Email).Scan(&customerID)
			if err != nil {
				return nil, fmt.Errorf("customer was not saved: %w", err)
			}

			err = tx.QueryRow(ctx, queryRacket, order.StoreID, customerID, order.RacketBrand, order.RacketModel, order.StringType).Scan(&racketID)
			if err != nil {
				return nil, fmt.Errorf("racket was not saved: %w", err)
			}

			err = tx.QueryRow(ctx, queryJob, order.StoreID, customerID, racketID, order.ServiceType, order.AdditionalNotes, models.PendingStatus.DBValue()).Scan(&jobID)
			if err != nil {
				return nil, fmt.Errorf("job was not saved: %w", err)
			}

			return getJob(ctx, tx, jobID)
		})
	})
	if err != nil {
		return nil, classify(err)
	}
	return job, nil
}

func (repository *OrderRepository) GetListByStoreID(ctx context.Context, storeID int64) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs_view WHERE store_id = $1 ORDER BY created_at DESC`
	jobs, err := retry.DoRetryWithResult(ctx, func() ([]models.Job, error) {
		rows, err := repository.db.Pool.Query(ctx, query, storeID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		jobs := []models.Job{}
		for rows.Next() {
			job, err := scanJob(rows)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, *job)
		}

		return jobs, rows.Err()
	})
	if err != nil {
		return nil, classify(err)
	}
	return jobs, nil
}

// Patch updates only the fields present in patch.
func (repository *OrderRepository) Patch(ctx context.Context, id int64, patch models.OrderPatch) (*models.Job, error) {
	query := `UPDATE jobs SET status = COALESCE($1, status), additional_notes = COALESCE($2, additional_notes) WHERE id = $3 RETURNING id`

	var status *string
	if patch.Status != nil {
		value := patch.Status.DBValue()
		status = &value
	}

	job, err := retry.DoRetryWithResult(ctx, func() (*models.Job, error) {
		return repository.inTx(ctx, func(tx pgx.Tx) (*models.Job, error) {
			var jobID int64
			err := tx.QueryRow(ctx, query, status, patch.AdditionalNotes, id).Scan(&jobID)
			if err != nil {
				return nil, err
			}
			return getJob(ctx, tx, jobID)
		})
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customerror.NewNotFoundError(fmt.Sprintf("order with id %v", id))
		}
		return nil, classify(err)
	}
	return job, nil
}

// Delete is idempotent: removing a missing job is not an error.
func (repository *OrderRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM jobs WHERE id = $1`
	err := retry.DoRetry(ctx, func() error {
		_, err := repository.db.Pool.Exec(ctx, query, id)
		return err
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func (repository *OrderRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) (*models.Job, error)) (job *models.Job, err error) {
	tx, err := repository.db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	job, err = fn(tx)
	if err != nil {
		return nil, err
	}
	return job, tx.Commit(ctx)
}

func getJob(ctx context.Context, tx pgx.Tx, id int64) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs_view WHERE id = $1`
	return scanJob(tx.QueryRow(ctx, query, id))
}

func scanJob(row pgx.Row) (*models.Job, error) {
	job := models.Job{}
	err := row.Scan(
		&job.ID,
		&job.StoreID,
		&job.CustomerID,
		&job.RacketID,
		&job.CreatedAt,
		&job.Status,
		&job.CustomerName,
		&job.ContactNumber,
		&job.Email,
		&job.RacketBrand,
		&job.RacketModel,
		&job.StringType,
		&job.ServiceType,
		&job.AdditionalNotes,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
