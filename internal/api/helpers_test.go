package api

import (
	"bytes"
	"codeflex/fitness-api/internal/auth"
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/repository/memory"
	"codeflex/fitness-api/internal/service"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	return g.text, g.err
}

type testServer struct {
	router *gin.Engine
	users  *memory.UserRepo
	plans  *memory.PlanRepo
	gen    *stubGenerator
}

func newTestServer(t *testing.T, limiter RateLimiter, limits RateLimits, trustedProxies ...string) *testServer {
	t.Helper()

	users := memory.NewUserRepo()
	plans := memory.NewPlanRepo()
	gen := &stubGenerator{}
	issuer := auth.NewSessionIssuer("api-test-secret", 10*24*time.Hour, nil)

	planService := service.NewPlanService(plans, nil)
	router, err := NewRouter(Dependencies{
		AuthService:       service.NewAuthService(users, issuer, nil, 4),
		UserService:       service.NewUserService(users, nil),
		PlanService:       planService,
		GenerationService: service.NewGenerationService(gen, planService, time.Second),
		Cookie:            SessionCookie{Name: "jwt", TTL: issuer.TTL()},
		Limiter:           limiter,
		RateLimits:        limits,
		TrustedProxies:    trustedProxies,
	})
	require.NoError(t, err)

	return &testServer{router: router, users: users, plans: plans, gen: gen}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return s.doWithHeaders(t, method, path, body, nil, cookies...)
}

func (s *testServer) doWithHeaders(t *testing.T, method, path string, body any, headers map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its id and session cookie.
func (s *testServer) register(t *testing.T, name, email string) (string, *http.Cookie) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/users/register", gin.H{"name": name, "email": email, "password": "s3cret-pass"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user UserResponse
	decodeData(t, rec, &user)
	return user.ID, sessionCookie(t, rec)
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

// promote grants the admin role to an existing account.
func (s *testServer) promote(t *testing.T, id string) {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	require.NoError(t, s.users.SetRole(context.Background(), oid, domain.RoleAdmin))
}

// planCount returns how many plans are stored for the account.
func (s *testServer) planCount(t *testing.T, id string) int {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	plans, err := s.plans.GetByUserID(context.Background(), oid)
	require.NoError(t, err)
	return len(plans)
}
