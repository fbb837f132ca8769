package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hospital-management-api/internal/auth"
	"hospital-management-api/internal/config"
	"hospital-management-api/internal/handler"
	"hospital-management-api/internal/middleware"
	"hospital-management-api/internal/respond"
	"hospital-management-api/internal/service"
	"hospital-management-api/internal/store"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

type api struct {
	t   *testing.T
	srv *httptest.Server
	st  store.Store
}

func setup(t *testing.T, mutate ...func(*config.Config)) *api {
	t.Helper()
	cfg := &config.Config{
		Auth:               config.Auth{JWTSecret: testSecret, JWTExpiry: 2 * time.Hour, BcryptCost: bcrypt.MinCost},
		Policy:             config.Policy{UniquePatientCPF: true, DoubleBooking: config.DoubleBookingAllow},
		Limits:             config.Limits{GlobalRPS: 1000, AuthRPS: 1000, AuthBurst: 1000},
		CORSAllowedOrigins: []string{"*"},
	}
	for _, m := range mutate {
		m(cfg)
	}

	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))

	log := zap.NewNop()
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	h := handler.New(
		service.NewAuth(st, tokens, cfg.Auth.BcryptCost, log),
		service.NewClinic(st, cfg.Policy, log),
		log,
	)
	rl := middleware.NewRateLimiter(cfg.Limits.AuthRPS, cfg.Limits.AuthBurst)
	srv := httptest.NewServer(h.Routes(cfg, rl))

	t.Cleanup(func() {
		srv.Close()
		rl.Close()
		st.Close()
	})
	return &api{t: t, srv: srv, st: st}
}

// do sends body (marshalled unless it is already a string) and decodes the
// response into out when out is non-nil.
func (a *api) do(method, path, token string, body, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}

	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(a.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (a *api) login(username, password string) string {
	a.t.Helper()
	code := a.do("POST", "/auth/signup", "", map[string]string{"username": username, "password": password}, nil)
	require.Equal(a.t, http.StatusCreated, code)

	var lr service.LoginResponse
	code = a.do("POST", "/auth/login", "", map[string]string{"username": username, "password": password}, &lr)
	require.Equal(a.t, http.StatusOK, code)
	return lr.AccessToken
}

func TestHealth(t *testing.T) {
	a := setup(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, a.do("GET", "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthStoreDown(t *testing.T) {
	a := setup(t)
	require.NoError(t, a.st.Close())
	assert.Equal(t, http.StatusServiceUnavailable, a.do("GET", "/health", "", nil, nil))
}

func TestSignupLoginFlow(t *testing.T) {
	a := setup(t)

	var sr service.SignupResponse
	code := a.do("POST", "/auth/signup", "", map[string]string{"username": "alice", "password": "pw123"}, &sr)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "alice", sr.User.Username)
	assert.Equal(t, "patient", string(sr.User.Role))

	var lr service.LoginResponse
	code = a.do("POST", "/auth/login", "", map[string]string{"username": "alice", "password": "pw123"}, &lr)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bearer", lr.TokenType)
	assert.Equal(t, int64(7200), lr.ExpiresIn)
	assert.NotEmpty(t, lr.AccessToken)

	var eb respond.ErrorBody
	code = a.do("POST", "/auth/signup", "", map[string]string{"username": "alice", "password": "x"}, &eb)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "duplicate_identity", eb.Error)

	code = a.do("POST", "/auth/login", "", map[string]string{"username": "alice", "password": "wrong"}, &eb)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", eb.Message)
}

func TestBadBodies(t *testing.T) {
	a := setup(t)
	token := a.login("alice", "pw123")

	tests := []struct {
		name  string
		path  string
		body  string
		token string
	}{
		{"signup unknown field", "/auth/signup", `{"username":"a","password":"b","email":"x"}`, ""},
		{"signup malformed", "/auth/signup", `{"username":`, ""},
		{"login empty", "/auth/login", ``, ""},
		{"patient wrong type", "/patients", `{"name":"Maria","cpf":111}`, token},
		{"appointment trailing data", "/appointments", `{"patient_id":1}{}`, token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var eb respond.ErrorBody
			code := a.do("POST", tt.path, tt.token, tt.body, &eb)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "validation_error", eb.Error)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := setup(t)

	expired := func() string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return tok
	}()
	good := a.login("alice", "pw123")
	tampered := good[:len(good)-2] + "xx"

	routes := []struct{ method, path string }{
		{"GET", "/patients"},
		{"POST", "/patients"},
		{"GET", "/patients/1"},
		{"GET", "/professionals"},
		{"POST", "/professionals"},
		{"GET", "/appointments"},
		{"POST", "/appointments"},
	}

	for _, rt := range routes {
		for name, tok := range map[string]string{"none": "", "expired": expired, "tampered": tampered} {
			t.Run(rt.method+" "+rt.path+" "+name, func(t *testing.T) {
				var eb respond.ErrorBody
				code := a.do(rt.method, rt.path, tok, nil, &eb)
				assert.Equal(t, http.StatusUnauthorized, code)
				assert.Equal(t, "unauthorized", eb.Error)
			})
		}
	}
}

func TestEndToEnd(t *testing.T) {
	a := setup(t)
	token := a.login("alice", "pw123")

	var p service.PatientView
	code := a.do("POST", "/patients", token, map[string]string{
		"name": "Maria", "cpf": "111", "birth_date": "1990-01-01",
	}, &p)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, int64(1), p.ID)

	var pro service.ProfessionalView
	code = a.do("POST", "/professionals", token, map[string]string{
		"name": "Dr. Silva", "specialty": "Cardiology",
	}, &pro)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, int64(1), pro.ID)

	var appt service.AppointmentView
	code = a.do("POST", "/appointments", token, map[string]any{
		"patient_id": 1, "professional_id": 1, "datetime": "2024-01-01T10:00",
		"type": "teleconsultation", "reason": "checkup",
	}, &appt)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, service.AppointmentView{
		ID: 1, PatientID: 1, ProfessionalID: 1, DateTime: "2024-01-01T10:00:00",
		Type: "teleconsultation", Reason: "checkup", Status: "scheduled",
	}, appt)

	for _, q := range []string{"?paciente_id=1", "?patient_id=1", "?paciente_id=1&profissional_id=1"} {
		var list []service.AppointmentView
		code = a.do("GET", "/appointments"+q, token, nil, &list)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []service.AppointmentView{appt}, list, q)
	}

	var empty []service.AppointmentView
	code = a.do("GET", "/appointments?paciente_id=2", token, nil, &empty)
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	var got service.PatientView
	require.Equal(t, http.StatusOK, a.do("GET", "/patients/1", token, nil, &got))
	assert.Equal(t, p, got)

	var patients []service.PatientView
	require.Equal(t, http.StatusOK, a.do("GET", "/patients", token, nil, &patients))
	assert.Len(t, patients, 1)

	var pros []service.ProfessionalView
	require.Equal(t, http.StatusOK, a.do("GET", "/professionals", token, nil, &pros))
	assert.Len(t, pros, 1)
}

func TestClientErrors(t *testing.T) {
	a := setup(t)
	token := a.login("alice", "pw123")
	require.Equal(t, http.StatusCreated, a.do("POST", "/patients", token, map[string]string{"name": "Maria", "cpf": "111"}, nil))
	require.Equal(t, http.StatusCreated, a.do("POST", "/professionals", token, map[string]string{"name": "Dr. Silva"}, nil))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
		kind   string
	}{
		{"unknown patient id", "GET", "/patients/99", nil, 404, "not_found"},
		{"non numeric patient id", "GET", "/patients/abc", nil, 404, "not_found"},
		{"duplicate cpf", "POST", "/patients", map[string]string{"name": "Other", "cpf": "111"}, 409, "duplicate_identity"},
		{"patient missing cpf", "POST", "/patients", map[string]string{"name": "Other"}, 400, "validation_error"},
		{"professional missing name", "POST", "/professionals", map[string]string{"specialty": "x"}, 400, "validation_error"},
		{"appointment unknown patient", "POST", "/appointments", map[string]any{
			"patient_id": 9, "professional_id": 1, "datetime": "2024-01-01T10:00", "type": "in_person",
		}, 404, "not_found"},
		{"appointment unknown professional", "POST", "/appointments", map[string]any{
			"patient_id": 1, "professional_id": 9, "datetime": "2024-01-01T10:00", "type": "in_person",
		}, 404, "not_found"},
		{"appointment bad type", "POST", "/appointments", map[string]any{
			"patient_id": 1, "professional_id": 1, "datetime": "2024-01-01T10:00", "type": "video",
		}, 400, "validation_error"},
		{"bad filter", "GET", "/appointments?paciente_id=x", nil, 400, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var eb respond.ErrorBody
			code := a.do(tt.method, tt.path, token, tt.body, &eb)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.kind, eb.Error)
		})
	}

	var list []service.AppointmentView
	require.Equal(t, http.StatusOK, a.do("GET", "/appointments", token, nil, &list))
	assert.Empty(t, list)
}

func TestDoubleBookingRejected(t *testing.T) {
	a := setup(t, func(c *config.Config) { c.Policy.DoubleBooking = config.DoubleBookingReject })
	token := a.login("alice", "pw123")
	require.Equal(t, http.StatusCreated, a.do("POST", "/patients", token, map[string]string{"name": "Maria", "cpf": "111"}, nil))
	require.Equal(t, http.StatusCreated, a.do("POST", "/professionals", token, map[string]string{"name": "Dr. Silva"}, nil))

	body := map[string]any{"patient_id": 1, "professional_id": 1, "datetime": "2024-01-01T10:00", "type": "in_person"}
	require.Equal(t, http.StatusCreated, a.do("POST", "/appointments", token, body, nil))

	var eb respond.ErrorBody
	assert.Equal(t, http.StatusConflict, a.do("POST", "/appointments", token, body, &eb))
	assert.Equal(t, "conflict", eb.Error)
}

func TestAuthRateLimit(t *testing.T) {
	a := setup(t, func(c *config.Config) {
		c.Limits.AuthRPS = 0.001
		c.Limits.AuthBurst = 2
	})

	creds := map[string]string{"username": "nobody", "password": "x"}
	assert.Equal(t, http.StatusUnauthorized, a.do("POST", "/auth/login", "", creds, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do("POST", "/auth/login", "", creds, nil))

	var eb respond.ErrorBody
	assert.Equal(t, http.StatusTooManyRequests, a.do("POST", "/auth/login", "", creds, &eb))
	assert.Equal(t, "rate_limited", eb.Error)

	// other routes keep working
	assert.Equal(t, http.StatusOK, a.do("GET", "/health", "", nil, nil))
}

func TestRequestIDHeader(t *testing.T) {
	a := setup(t)
	res, err := a.srv.Client().Get(a.srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader))
}
