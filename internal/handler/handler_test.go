package handler_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/config"
	"github.com/iliyamo/qshe-portal/internal/handler"
	"github.com/iliyamo/qshe-portal/internal/model"
	"github.com/iliyamo/qshe-portal/internal/repository"
	"github.com/iliyamo/qshe-portal/internal/router"
	"github.com/iliyamo/qshe-portal/internal/service"
	"github.com/iliyamo/qshe-portal/internal/utils"
)

var (
	ts       = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	occurred = time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)

	safetyCols = []string{"id", "reported_by", "incident_type", "severity_level", "description", "location",
		"date_occurred", "actions_taken", "status", "created_at", "updated_at"}
	userCols = []string{"id", "email", "password_hash", "first_name", "last_name", "role",
		"department", "employee_id", "phone", "is_active", "created_at", "updated_at"}
)

type testServer struct {
	e      *echo.Echo
	mock   sqlmock.Sqlmock
	tokens *utils.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop()
	tokens := utils.NewTokenService("handler-test-secret")
	guards := router.Guards{Verifier: tokens, Log: log}

	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(
		service.NewAuthService(repository.NewUserRepo(db), tokens, 4, log), log), guards)
	router.RegisterQSHE(e,
		handler.NewSafetyMetricHandler(service.NewSafetyMetricService(repository.NewSafetyMetricRepo(db), nil, log), log),
		handler.NewMedicalReportHandler(service.NewMedicalReportService(repository.NewMedicalReportRepo(db), nil, log), log),
		guards)
	router.RegisterSecurity(e,
		handler.NewVisitorRequestHandler(service.NewVisitorRequestService(repository.NewVisitorRequestRepo(db), nil, log), log),
		handler.NewSecurityHandler(service.NewReferenceService(repository.NewCompetencyRepo(db)), log),
		router.Guards{Verifier: tokens, Log: log, Cache: config.CacheConfig{Enabled: true}})
	router.RegisterDashboard(e, handler.NewDashboardHandler(service.NewDashboardService(repository.NewDashboardRepo(db)), log), guards)

	return &testServer{e: e, mock: mock, tokens: tokens}
}

func (s *testServer) token(t *testing.T, id uint64, role model.Role) string {
	t.Helper()
	tok, err := s.tokens.Issue(id, "user@x.com", role)
	require.NoError(t, err)
	return tok.Token
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/qshe/safety-metrics", "/qshe/medical-reports", "/security/visitor-requests",
		"/security/personnel", "/dashboard/stats", "/auth/me"} {
		rec := s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "unauthenticated", decode(t, rec)["kind"], path)
	}
	rec := s.do(http.MethodGet, "/qshe/safety-metrics", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestCreateSafetyMetricIgnoresClientReporter(t *testing.T) {
	s := newTestServer(t)
	s.mock.ExpectExec("INSERT INTO safety_metrics").
		WithArgs(uint64(2), "Near Miss", "high", "forklift skid", "Dock 3", occurred, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	s.mock.ExpectQuery("SELECT .* FROM safety_metrics WHERE id = \\?").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(safetyCols).
			AddRow(11, 2, "Near Miss", "high", "forklift skid", "Dock 3", occurred, nil, "open", ts, ts))

	body := `{"incidentType":"Near Miss","severityLevel":"high","description":"forklift skid",
		"location":"Dock 3","dateOccurred":"2026-05-03","reportedBy":999}`
	rec := s.do(http.MethodPost, "/qshe/safety-metrics", s.token(t, 2, model.RoleVisitor), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode(t, rec)
	assert.EqualValues(t, 2, got["reportedBy"])
	assert.Equal(t, "open", got["status"])
	assert.NotContains(t, got, "actionsTaken")
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestCreateSafetyMetricRejectsUnknownSeverity(t *testing.T) {
	s := newTestServer(t)
	body := `{"incidentType":"x","severityLevel":"extreme","description":"d","location":"l","dateOccurred":"2026-05-03"}`
	rec := s.do(http.MethodPost, "/qshe/safety-metrics", s.token(t, 2, model.RoleVisitor), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decode(t, rec)["kind"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestListSafetyMetricsWrapsRows(t *testing.T) {
	s := newTestServer(t)
	s.mock.ExpectQuery("SELECT .* FROM safety_metrics ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(safetyCols).
			AddRow(2, 7, "Spill", "low", "d", "l", occurred, "mopped", "investigating", ts.Add(time.Minute), ts).
			AddRow(1, 8, "Fall", "critical", "d", "l", occurred, nil, "closed", ts, ts))

	rec := s.do(http.MethodGet, "/qshe/safety-metrics", s.token(t, 2, model.RoleVisitor), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Metrics []struct {
			ID     uint64 `json:"id"`
			Status string `json:"status"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Metrics, 2)
	assert.Equal(t, uint64(2), out.Metrics[0].ID)
	assert.Equal(t, "closed", out.Metrics[1].Status)
}

func TestListEmptyReturnsArray(t *testing.T) {
	s := newTestServer(t)
	s.mock.ExpectQuery("SELECT .* FROM safety_metrics").WillReturnRows(sqlmock.NewRows(safetyCols))

	rec := s.do(http.MethodGet, "/qshe/safety-metrics", s.token(t, 2, model.RoleVisitor), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"metrics":[]}`, rec.Body.String())
}

func TestVisitorCannotReviewAnything(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, 2, model.RoleVisitor)
	cases := map[string]string{
		"/qshe/safety-metrics/5/status":       `{"status":"resolved"}`,
		"/qshe/medical-reports/5/review":      `{"approvalStatus":"approved"}`,
		"/security/visitor-requests/5/review": `{"status":"approved"}`,
	}
	for path, body := range cases {
		rec := s.do(http.MethodPut, path, tok, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.Equal(t, "permission_denied", decode(t, rec)["kind"], path)
	}
	// no statement may reach the database
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestAdminUpdateStatus(t *testing.T) {
	s := newTestServer(t)
	s.mock.ExpectExec("UPDATE safety_metrics").
		WithArgs("resolved", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery("SELECT .* FROM safety_metrics WHERE id = \\?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(safetyCols).
			AddRow(5, 2, "Spill", "low", "d", "l", occurred, nil, "resolved", ts, ts.Add(time.Hour)))

	rec := s.do(http.MethodPut, "/qshe/safety-metrics/5/status", s.token(t, 1, model.RoleAdmin), `{"status":"resolved"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "resolved", decode(t, rec)["status"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestAdminReviewMissingRecord(t *testing.T) {
	s := newTestServer(t)
	s.mock.ExpectExec("UPDATE medical_reports").WillReturnResult(sqlmock.NewResult(0, 0))

	rec := s.do(http.MethodPut, "/qshe/medical-reports/404/review", s.token(t, 1, model.RoleAdmin),
		`{"approvalStatus":"approved"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Medical report not found","kind":"not_found"}`, rec.Body.String())
}

func TestReviewRejectsBadID(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPut, "/security/visitor-requests/abc/review", s.token(t, 1, model.RoleAdmin), `{"status":"approved"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReferenceListsAreAdminOnly(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/security/competency-assessments", s.token(t, 2, model.RoleVisitor), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestLoginFailureIsGeneric(t *testing.T) {
	s := newTestServer(t)
	hash, err := utils.HashPassword("pw123", 4)
	require.NoError(t, err)

	s.mock.ExpectQuery("SELECT .* FROM users WHERE email=\\?").
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows(userCols))
	s.mock.ExpectQuery("SELECT .* FROM users WHERE email=\\?").
		WithArgs("bob@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(2, "bob@x.com", hash, "Bob", "Stone", "visitor", nil, nil, nil, true, ts, ts))

	missing := s.do(http.MethodPost, "/auth/login", "", `{"email":"ghost@x.com","password":"pw123"}`)
	wrong := s.do(http.MethodPost, "/auth/login", "", `{"email":"bob@x.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, missing.Body.String(), wrong.Body.String())
	assert.Equal(t, "Invalid email or password", decode(t, wrong)["error"])
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	hash, err := utils.HashPassword("pw123", 4)
	require.NoError(t, err)
	s.mock.ExpectQuery("SELECT .* FROM users WHERE email=\\?").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(2, "bob@x.com", hash, "Bob", "Stone", "visitor", "Ops", nil, nil, true, ts, ts))

	rec := s.do(http.MethodPost, "/auth/login", "", `{"email":"bob@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "visitor", out.User["role"])
	assert.NotContains(t, out.User, "passwordHash")
	assert.NotContains(t, rec.Body.String(), hash)

	me := s.do(http.MethodGet, "/auth/me", out.Token, "")
	require.Equal(t, http.StatusOK, me.Code)
	assert.JSONEq(t, `{"userId":2,"email":"bob@x.com","role":"visitor"}`, me.Body.String())
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestServer(t)
	s.mock.ExpectQuery("SELECT .* FROM users WHERE email=\\?").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(2, "bob@x.com", "h", "Bob", "Stone", "visitor", nil, nil, nil, true, ts, ts))

	rec := s.do(http.MethodPost, "/auth/register", "",
		`{"email":"bob@x.com","password":"pw","firstName":"Bob","lastName":"Stone"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_exists", decode(t, rec)["kind"])
}

func TestInternalErrorsHideCause(t *testing.T) {
	s := newTestServer(t)
	s.mock.ExpectQuery("SELECT .* FROM safety_metrics").WillReturnError(sql.ErrConnDone)

	rec := s.do(http.MethodGet, "/qshe/safety-metrics", s.token(t, 2, model.RoleVisitor), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection")
	assert.Equal(t, "internal", decode(t, rec)["kind"])
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["kind"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
