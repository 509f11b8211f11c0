package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/racketdesk/stringdesk/internal/handlers/schemas"
	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
	"github.com/racketdesk/stringdesk/internal/models"
)

const defaultTimeout = 10 * time.Second

// StatusError is returned for any non-2xx answer of the order store.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s answered with status code %d: %s", e.Method, e.URL, e.Code, e.Body)
}

type OrdersClientI interface {
	List(ctx context.Context, storeID int64) ([]models.Order, error)
	Create(ctx context.Context, req schemas.CreateOrderRequest) (models.Order, error)
	Patch(ctx context.Context, id string, patch models.OrderPatch) error
	Delete(ctx context.Context, id string) error
}

// OrdersClient talks to the order store API. Every call is a single attempt.
type OrdersClient struct {
	httpClient *http.Client
	address    string
}

func NewOrdersClient(address string) *OrdersClient {
	return &OrdersClient{address: address, httpClient: &http.Client{Timeout: defaultTimeout}}
}

func (client *OrdersClient) WithHTTPClient(httpClient *http.Client) *OrdersClient {
	client.httpClient = httpClient
	return client
}

func (client *OrdersClient) List(ctx context.Context, storeID int64) ([]models.Order, error) {
	endpoint := fmt.Sprintf("%s/orders?storeId=%s", client.address, url.QueryEscape(strconv.FormatInt(storeID, 10)))

	var answer schemas.DataResponse[[]models.Job]
	if err := client.do(ctx, http.MethodGet, endpoint, nil, &answer); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(answer.Data))
	for _, job := range answer.Data {
		order, err := ToOrder(job)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (client *OrdersClient) Create(ctx context.Context, req schemas.CreateOrderRequest) (models.Order, error) {
	endpoint := client.address + "/orders"

	var answer schemas.DataResponse[models.Job]
	if err := client.do(ctx, http.MethodPost, endpoint, req, &answer); err != nil {
		return models.Order{}, err
	}
	return ToOrder(answer.Data)
}

func (client *OrdersClient) Patch(ctx context.Context, id string, patch models.OrderPatch) error {
	endpoint := fmt.Sprintf("%s/orders/%s", client.address, url.PathEscape(id))
	return client.do(ctx, http.MethodPatch, endpoint, schemas.NewPatchOrderRequest(patch), nil)
}

func (client *OrdersClient) Delete(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/orders/%s", client.address, url.PathEscape(id))
	return client.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (client *OrdersClient) do(ctx context.Context, method, endpoint string, payload, answer any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request for %s: %w", endpoint, err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", endpoint, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logger.Log.Warn("error closing response body", zap.Error(err))
		}
	}()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read answer of %s: %w", endpoint, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &StatusError{Method: method, URL: endpoint, Code: response.StatusCode, Body: string(bytes.TrimSpace(responseBody))}
	}

	if answer == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, answer); err != nil {
		return fmt.Errorf("failed to decode answer of %s: %w", endpoint, err)
	}
	return nil
}
