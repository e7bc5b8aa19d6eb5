package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"financetracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
		"data":    data,
	})
}

func TestClient_EntryByDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profiles/7/entries/by-date", r.URL.Path)
		assert.Equal(t, "2024-01-20", r.URL.Query().Get("date"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeEnvelope(w, 200, "success", map[string]interface{}{
			"entry": models.Entry{ID: 3, ProfileID: 7, EntryDate: mustDate(t, "2024-01-20"), SavingsAccount: 200},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	entry, err := c.EntryByDate(context.Background(), 7, mustDate(t, "2024-01-20"))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 200.0, entry.SavingsAccount)
	assert.Equal(t, "2024-01-20", entry.EntryDate.String())
}

func TestClient_EntryByDate_NoRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, "success", map[string]interface{}{"entry": nil})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	entry, err := c.EntryByDate(context.Background(), 7, mustDate(t, "2024-01-05"))
	require.NoError(t, err)
	// 无记录不是错误
	assert.Nil(t, entry)
}

func TestClient_EntryBeforeDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profiles/7/entries/before-date", r.URL.Path)
		writeEnvelope(w, 200, "success", map[string]interface{}{
			"entry": models.Entry{ID: 2, ProfileID: 7, EntryDate: mustDate(t, "2024-01-10"), SavingsAccount: 100},
			"date":  "2024-01-10",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	entry, date, err := c.EntryBeforeDate(context.Background(), 7, mustDate(t, "2024-01-15"))
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.NotNil(t, date)
	// 返回的是回退记录自身的日期
	assert.Equal(t, "2024-01-10", date.String())
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, "当前为只读权限，该操作需要编辑权限", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	_, err := c.SaveEntry(context.Background(), 7, &models.Entry{EntryDate: mustDate(t, "2024-01-15")})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Message, "编辑权限")
}

func TestClient_EntryDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, "success", map[string]interface{}{
			"dates": []string{"2024-01-20", "2024-01-10"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	dates, err := c.EntryDates(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2024-01-20", dates[0].String())
	assert.Equal(t, "2024-01-10", dates[1].String())
}

func TestClient_SaveEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2024-01-15", body["entry_date"])

		writeEnvelope(w, 200, "保存成功", models.Entry{
			ID: 11, ProfileID: 7, EntryDate: mustDate(t, "2024-01-15"), SavingsAccount: 100.5,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	saved, err := c.SaveEntry(context.Background(), 7, &models.Entry{
		EntryDate:      mustDate(t, "2024-01-15"),
		SavingsAccount: 100.5,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(11), saved.ID)
	assert.Equal(t, 100.5, saved.SavingsAccount)
}
