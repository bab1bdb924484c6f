package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jjc-attendance/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchEdits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendanceEdit", r.URL.Path)
		assert.Equal(t, "2026-03-01T00:00:00Z", r.URL.Query().Get("since"))
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"edited": [{"id": 41, "employee_id": "emp-1", "clock_type": "morning_in",
					"clock_time": "2026-03-02T08:00:00Z", "date": "2026-03-02"}],
				"deleted": [17, 18],
				"timestamp": "2026-03-02T09:00:00Z"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	batch, err := client.FetchEdits(context.Background(), "2026-03-01T00:00:00Z", 500)
	require.NoError(t, err)

	require.Len(t, batch.Edited, 1)
	assert.Equal(t, int64(41), batch.Edited[0].ID)
	assert.Equal(t, "emp-1", batch.Edited[0].EmployeeID)
	assert.Equal(t, []int64{17, 18}, batch.Deleted)
	assert.Equal(t, "2026-03-02T09:00:00Z", batch.Timestamp)
}

func TestFetchEditsOmitsEmptyCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("since"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"edited": [], "deleted": [], "timestamp": "t0"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	batch, err := client.FetchEdits(context.Background(), "", 100)
	require.NoError(t, err)
	assert.Empty(t, batch.Edited)
}

func TestMarkSyncedSendsIDLists(t *testing.T) {
	var got map[string][]int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/attendanceEdit/mark-synced", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	err := client.MarkSynced(context.Background(), []int64{1, 2}, []int64{3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got["editedIds"])
	assert.Equal(t, []int64{3}, got["deletedIds"])
}

func TestServerRejectionSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "message": "cursor expired"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	_, err := client.FetchEdits(context.Background(), "stale", 10)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeServerError, appErr.Code)
	assert.Contains(t, appErr.Err.Error(), "cursor expired")
}

func TestNonJSONResponseIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login required</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	_, err := client.FetchEdits(context.Background(), "", 10)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeServerError, appErr.Code)
}

func TestNon2xxIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	err := client.MarkSynced(context.Background(), nil, nil)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeServerError, appErr.Code)
}

func TestUnreachableServerIsNetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err := client.FetchEdits(context.Background(), "", 10)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeNetworkFailure, appErr.Code)
}

func TestPushRecordReturnsServerCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendance/sync", r.URL.Path)
		var body struct {
			Record Record `json:"record"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "emp-1", body.Record.EmployeeID)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"id": 99, "employee_id": "emp-1", "clock_type": "morning_in", "date": "2026-03-02"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	saved, err := client.PushRecord(context.Background(), Record{
		EmployeeID: "emp-1",
		ClockType:  "morning_in",
		Date:       "2026-03-02",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), saved.ID)
}
