package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"jjc-attendance/internal/shared/apperror"
)

type Client struct {
	transport *Transport
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{transport: NewTransport(baseURL, token, timeout)}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) FetchEdits(ctx context.Context, since string, limit int) (*EditBatch, error) {
	query := map[string]string{"limit": strconv.Itoa(limit)}
	if since != "" {
		query["since"] = since
	}

	body, err := c.transport.Get(ctx, "/attendanceEdit", query)
	if err != nil {
		return nil, err
	}

	var batch EditBatch
	if err := c.decode(body, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (c *Client) FetchRange(ctx context.Context, startDate, endDate string) ([]Record, error) {
	body, err := c.transport.Get(ctx, "/attendanceEdit/range", map[string]string{
		"start_date": startDate,
		"end_date":   endDate,
	})
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := c.decode(body, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) MarkSynced(ctx context.Context, editedIDs, deletedIDs []int64) error {
	body, err := c.transport.Post(ctx, "/attendanceEdit/mark-synced", map[string]any{
		"editedIds":  editedIDs,
		"deletedIds": deletedIDs,
	})
	if err != nil {
		return err
	}
	return c.decode(body, nil)
}

func (c *Client) UploadSummaries(ctx context.Context, summaries []SummaryRecord) error {
	body, err := c.transport.Post(ctx, "/daily-summary/batch-upload", map[string]any{
		"summaries": summaries,
	})
	if err != nil {
		return err
	}
	return c.decode(body, nil)
}

// PushRecord forward-pushes one local row. The server answers with its own
// copy so the caller can link the server id.
func (c *Client) PushRecord(ctx context.Context, record Record) (*Record, error) {
	body, err := c.transport.Post(ctx, "/attendance/sync", map[string]any{
		"record": record,
	})
	if err != nil {
		return nil, err
	}

	var saved Record
	if err := c.decode(body, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// decode unwraps the {success, data} envelope; out may be nil when the caller
// only cares about success.
func (c *Client) decode(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return apperror.ServerError(fmt.Errorf("malformed response body: %w", err))
	}
	if !env.Success {
		return apperror.ServerError(fmt.Errorf("server rejected request: %s", env.Message))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperror.ServerError(fmt.Errorf("malformed response data: %w", err))
	}
	return nil
}
