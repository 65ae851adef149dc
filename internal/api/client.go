package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultBaseURL - адрес сервера планирования по умолчанию
const DefaultBaseURL = "https://ftcb.in/api/"

// Маршруты относительно базового адреса
const (
	routeRequestedTask = "requested_task"
	routeScheduledTask = "scheduled_task"
	routeSchedule      = "requested_task/schedule"
)

// сколько байт тела ошибки попадает в TransportError
const errorBodyLimit = 512

// Client - тонкий типизированный клиент API планирования.
// Ретраев и backoff нет: обработка сбоев (алерт пользователю) на стороне вызывающего.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClient создаёт клиент. httpClient может быть nil - тогда используется клиент без таймаута.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:  u,
		http:     httpClient,
		validate: validator.New(),
		logger:   logger,
	}, nil
}

// BaseURL возвращает базовый адрес API
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GetRequestedTasks получает все заявки, ожидающие планирования
func (c *Client) GetRequestedTasks(ctx context.Context) ([]model.RequestedTask, error) {
	body, err := c.do(ctx, http.MethodGet, routeRequestedTask, nil)
	if err != nil {
		return nil, err
	}

	var raw []wireTask
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, shapeError(routeRequestedTask, err)
	}

	tasks := make([]model.RequestedTask, 0, len(raw))
	for i := range raw {
		if err := checkShape(c.validate, fmt.Sprintf("%s[%d]", routeRequestedTask, i), &raw[i]); err != nil {
			return nil, err
		}
		task := raw[i].toModel()
		if task.DurationErr != nil {
			c.logger.Warn("Requested task has malformed duration",
				zap.Int64("task_id", task.ID),
				zap.Error(task.DurationErr))
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// GetScheduledTasks получает запланированные задачи вместе со слотами.
// Слоты передаются как есть.
func (c *Client) GetScheduledTasks(ctx context.Context) ([]model.ScheduledTask, error) {
	body, err := c.do(ctx, http.MethodGet, routeScheduledTask, nil)
	if err != nil {
		return nil, err
	}

	var raw []wireScheduledTask
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, shapeError(routeScheduledTask, err)
	}

	tasks := make([]model.ScheduledTask, 0, len(raw))
	for i := range raw {
		if err := checkShape(c.validate, fmt.Sprintf("%s[%d]", routeScheduledTask, i), &raw[i]); err != nil {
			return nil, err
		}
		task := raw[i].toModel()
		if task.DurationErr != nil {
			c.logger.Warn("Scheduled task has malformed duration",
				zap.Int64("task_id", task.ID),
				zap.Error(task.DurationErr))
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// ScheduleResult - ответ на запрос планирования. Форма ответа определяется сервером.
type ScheduleResult struct {
	StatusCode int
	Body       []byte
}

// IsJSON сообщает, что сервер вернул JSON
func (r *ScheduleResult) IsJSON() bool {
	return json.Valid(r.Body)
}

// Text возвращает тело ответа для показа пользователю
func (r *ScheduleResult) Text() string {
	text := strings.TrimSpace(string(r.Body))
	if text == "" || text == "null" {
		return "HTTP " + strconv.Itoa(r.StatusCode)
	}
	return text
}

// ScheduleTasks просит сервер назначить слоты перечисленным заявкам
func (c *Client) ScheduleTasks(ctx context.Context, ids []int64) (*ScheduleResult, error) {
	if ids == nil {
		ids = []int64{}
	}

	status, body, err := c.doRaw(ctx, http.MethodPost, routeSchedule, ids)
	if err != nil {
		return nil, err
	}

	return &ScheduleResult{StatusCode: status, Body: body}, nil
}

// RequestTask создаёт новую заявку
func (c *Client) RequestTask(ctx context.Context, task model.PartialRequestedTask) (*model.RequestedTask, error) {
	body, err := c.do(ctx, http.MethodPost, routeRequestedTask, task)
	if err != nil {
		return nil, err
	}
	return c.decodeTask(routeRequestedTask, body)
}

// UpdateTask обновляет существующую заявку
func (c *Client) UpdateTask(ctx context.Context, task model.RequestedTask) (*model.RequestedTask, error) {
	body, err := c.do(ctx, http.MethodPut, routeRequestedTask, task)
	if err != nil {
		return nil, err
	}
	return c.decodeTask(routeRequestedTask, body)
}

// DeleteTask удаляет заявку. Сервер возвращает удалённую запись.
func (c *Client) DeleteTask(ctx context.Context, id int64) (*model.RequestedTask, error) {
	route := routeRequestedTask + "/" + strconv.FormatInt(id, 10)

	body, err := c.do(ctx, http.MethodDelete, route, nil)
	if err != nil {
		return nil, err
	}
	return c.decodeTask(route, body)
}

// decodeTask разбирает одиночную заявку. Здесь ошибка длительности фатальна.
func (c *Client) decodeTask(what string, body []byte) (*model.RequestedTask, error) {
	var raw wireTask
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, shapeError(what, err)
	}
	if err := checkShape(c.validate, what, &raw); err != nil {
		return nil, err
	}

	task := raw.toModel()
	if task.DurationErr != nil {
		return nil, task.DurationErr
	}
	return &task, nil
}

func (c *Client) do(ctx context.Context, method, route string, payload any) ([]byte, error) {
	_, body, err := c.doRaw(ctx, method, route, payload)
	return body, err
}

// doRaw выполняет запрос и возвращает статус и тело успешного ответа
func (c *Client) doRaw(ctx context.Context, method, route string, payload any) (int, []byte, error) {
	target := c.baseURL.ResolveReference(&url.URL{Path: route}).String()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s payload: %w", method, route, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("API request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err))
		return 0, nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := body
		if len(snippet) > errorBodyLimit {
			snippet = snippet[:errorBodyLimit]
		}
		c.logger.Warn("API returned non-success status",
			zap.String("method", method),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode))
		return resp.StatusCode, nil, &TransportError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	return resp.StatusCode, body, nil
}
