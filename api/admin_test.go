package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"financetracker/config"
	"financetracker/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewAdminHandler(testConfig())
	router.GET("/admin/users/pending", h.PendingUsers)
	router.GET("/admin/profiles", h.AllProfiles)
	router.POST("/admin/users/:id/approve", h.Approve)
	router.POST("/admin/users/:id/reject", h.Reject)
	return router
}

func TestAdminHandler_PendingUsers(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(models.RolePending).
		WillReturnRows(userRows(3, "alice", "x", models.RolePending))

	router := adminTestRouter()
	req := httptest.NewRequest("GET", "/admin/users/pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	users := data["users"].([]interface{})
	require.Len(t, users, 1)
	u := users[0].(map[string]interface{})
	assert.Equal(t, "alice", u["username"])
	// 密码不出现在响应里
	assert.NotContains(t, w.Body.String(), "password")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Approve_WithLinks(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(3)).
		WillReturnRows(userRows(3, "alice", "x", models.RolePending))

	// 角色变更与授权记录在同一事务内落库
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .* FROM `profiles`").
		WithArgs(uint(7)).
		WillReturnRows(profileRows(7, "家庭资产"))
	mock.ExpectExec("INSERT INTO `links`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := adminTestRouter()
	body := `{"role":"approved","profileLinks":[{"profileId":7,"permission":"read"}]}`
	req := httptest.NewRequest("POST", "/admin/users/3/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, models.RoleApproved, data["role"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Approve_NoLinks(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(3)).
		WillReturnRows(userRows(3, "alice", "x", models.RolePending))

	// 不授予任何档案权限也可以通过审核
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := adminTestRouter()
	body := `{"role":"approved"}`
	req := httptest.NewRequest("POST", "/admin/users/3/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Approve_InvalidRole(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := adminTestRouter()
	body := `{"role":"pending"}`
	req := httptest.NewRequest("POST", "/admin/users/3/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 参数校验先于任何数据库访问
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Approve_InvalidPermission(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := adminTestRouter()
	body := `{"role":"approved","profileLinks":[{"profileId":7,"permission":"owner"}]}`
	req := httptest.NewRequest("POST", "/admin/users/3/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "read 或 edit")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Approve_AlreadyReviewed(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(5)).
		WillReturnRows(userRows(5, "bob", "x", models.RoleApproved))

	router := adminTestRouter()
	body := `{"role":"approved"}`
	req := httptest.NewRequest("POST", "/admin/users/5/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "已完成审核")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Reject(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(3)).
		WillReturnRows(userRows(3, "alice", "x", models.RolePending))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := adminTestRouter()
	req := httptest.NewRequest("POST", "/admin/users/3/reject", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, models.RoleRejected, data["role"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Approve_UserNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(999)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := adminTestRouter()
	body := `{"role":"approved"}`
	req := httptest.NewRequest("POST", "/admin/users/999/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
