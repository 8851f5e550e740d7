package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"io"
	"net/http"
)

const RouteTicketStatus = "/api/tickets/%s"

// Константы минимального и максимально значения в заголовке Retry-After.
const (
	minRetryAfter = 1
	maxRetryAfter = 120
)

type StatusType string

const (
	StatusPending   StatusType = "PENDING"
	StatusConfirmed StatusType = "CONFIRMED"
	StatusInvalid   StatusType = "INVALID"
	StatusNotFound  StatusType = "NOT_FOUND"
)

type Response struct {
	Code   string          `json:"code"`
	Status StatusType      `json:"status"`
	Amount decimal.Decimal `json:"amount,omitempty"`
}

// HTTPClient является реализацией интерфейса Client для HTTP запросов к бирже.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) HTTPClient {
	return HTTPClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// TicketStatus получает состояние кода пополнения на бирже. Неизвестный бирже код не считается
// ошибкой транспорта: возвращается ответ со статусом StatusNotFound. При ответе сервера со
// статусом отличным от http.StatusOK возвращает ошибку StatusCodeError, или TooManyRequestError
// в случае http.StatusTooManyRequests.
//
//nolint:nonamedreturns
func (c HTTPClient) TicketStatus(
	ctx context.Context,
	code string,
) (response *Response, err error) {
	// Формируем URL запроса.
	url := c.baseURL + fmt.Sprintf(RouteTicketStatus, code)

	// Создаем запрос.
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %s", reqErr.Error())
	}

	// Выполняем запрос.
	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("do request: %s", doErr.Error())
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewTooManyRequestError(parseRetryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode == http.StatusNotFound {
		return &Response{Code: code, Status: StatusNotFound}, nil
	}

	// Статус отличный от http.StatusOK нас не интересует.
	if resp.StatusCode != http.StatusOK {
		err = NewStatusCodeError(resp.StatusCode)
		return nil, err
	}

	// Парсим успешный ответ.
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		err = fmt.Errorf("read response: %s", readErr.Error())
		return nil, err
	}

	if jsonErr := json.Unmarshal(body, &response); jsonErr != nil {
		err = fmt.Errorf("parse response: %s", jsonErr.Error())
		return nil, err
	}

	return response, nil
}

// parseRetryAfter разбирает заголовок Retry-After. В случае ошибки или значения вне разумных
// пределов возвращает 60 секунд.
func parseRetryAfter(header string) time.Duration {
	minValue := decimal.NewFromInt(minRetryAfter)
	maxValue := decimal.NewFromInt(maxRetryAfter)

	retryAfter, parseErr := decimal.NewFromString(header)
	if parseErr != nil || retryAfter.LessThan(minValue) || retryAfter.GreaterThan(maxValue) {
		retryAfter = decimal.NewFromInt(60) //nolint:mnd
	}

	return time.Duration(retryAfter.IntPart()) * time.Second
}
