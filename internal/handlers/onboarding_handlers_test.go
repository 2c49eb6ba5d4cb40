package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dreamvault/dreamvault-golang/internal/auth"
	"github.com/dreamvault/dreamvault-golang/internal/handlers"
	"github.com/dreamvault/dreamvault-golang/internal/routes"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stepQuery = "SELECT onboarding_step FROM users WHERE id = ?"

func postOnboarding(t *testing.T, db *sql.DB, path string, body interface{}, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := routes.SetupRouter(&handlers.Handlers{DB: db})

	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSavePersonalInfo_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(stepQuery)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"onboarding_step"}).AddRow(0))
	mock.ExpectExec("UPDATE users").
		WithArgs("Star Chaser", nil, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := postOnboarding(t, db, "/v1/onboarding/personal-info",
		map[string]string{"displayName": "Star Chaser"}, 5)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePersonalInfo_RequiresDisplayName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := postOnboarding(t, db, "/v1/onboarding/personal-info",
		map[string]string{"bio": "just vibes"}, 5)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "validation failures must not touch the database")
}

func TestOnboardingStepsOutOfOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// User is still on step 0 but tries to submit privacy settings (step 3).
	mock.ExpectQuery(regexp.QuoteMeta(stepQuery)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"onboarding_step"}).AddRow(0))

	share := true
	rec := postOnboarding(t, db, "/v1/onboarding/privacy",
		map[string]interface{}{"profileVisibility": "private", "shareDreams": &share}, 5)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "order")
}

func TestOnboardingAlreadyComplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(stepQuery)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"onboarding_step"}).AddRow(4))

	rec := postOnboarding(t, db, "/v1/onboarding/referral",
		map[string]string{"source": "friend"}, 5)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "already complete")
}

func TestOnboardingRequiresAuth(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gin.SetMode(gin.TestMode)
	router := routes.SetupRouter(&handlers.Handlers{DB: db})

	req := httptest.NewRequest(http.MethodPost, "/v1/onboarding/personal-info",
		bytes.NewReader([]byte(`{"displayName":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
