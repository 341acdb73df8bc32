package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/config"
	"github.com/qlpt/rental-portal/server"
	"github.com/qlpt/rental-portal/server/contractrepo"
	"github.com/qlpt/rental-portal/server/roomrepo"
	refreshrepofake "github.com/qlpt/rental-portal/token/refresh/repofake"
	fakeuserrepo "github.com/qlpt/rental-portal/users/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	ownerEmail    = "admin@demo.com"
	ownerPassword = "Admin123"
	tenantEmail   = "tenant@demo.com"
	tenantPass    = "Tenant123"
)

// testFixture holds all test dependencies
type testFixture struct {
	cfg   config.Config
	repos server.Repos
	srv   *server.Server
	ts    *httptest.Server
}

func testSettings() config.Settings {
	s := config.Defaults()
	s.Env = "TEST"
	s.JWTSecret = "test-secret"
	s.AccessTTL = time.Minute
	s.AllowedOrigins = []string{"http://localhost:5173"}
	return s
}

// setupTestFixture starts the demo backend seeded with the demo data.
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	cfg := config.FromSettings(testSettings())
	repos := server.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Rooms:         roomrepo.NewInMemoryRepo(),
		Contracts:     contractrepo.NewInMemoryRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	}
	srv, err := server.New(cfg, repos, server.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &testFixture{cfg: cfg, repos: repos, srv: srv, ts: ts}
}

func (f *testFixture) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.ts.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (f *testFixture) login(t *testing.T, email, password string) gateway.TokenResponse {
	t.Helper()
	resp, raw := f.do(t, http.MethodPost, server.RouteAuthLogin, "", gateway.LoginRequest{Username: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var tr gateway.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &tr))
	return tr
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)

	tr := f.login(t, ownerEmail, ownerPassword)
	require.NotEmpty(t, tr.Access)
	require.NotEmpty(t, tr.Refresh)
	require.NotNil(t, tr.User)
	require.Equal(t, 2, tr.User.ID)
	require.Equal(t, "OWNER", tr.User.Role.String())

	resp, raw := f.do(t, http.MethodPost, server.RouteAuthLogin, "", gateway.LoginRequest{Username: ownerEmail, Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, string(raw), "detail")
	require.NotContains(t, string(raw), "password_hash")

	resp, raw = f.do(t, http.MethodPost, server.RouteAuthLogin, "", gateway.LoginRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fe := decode[map[string][]string](t, raw)
	require.Contains(t, fe, "username")
	require.Contains(t, fe, "password")
}

func TestRefresh(t *testing.T) {
	f := setupTestFixture(t)
	tr := f.login(t, tenantEmail, tenantPass)

	resp, raw := f.do(t, http.MethodPost, server.RouteAuthRefresh, "", gateway.RefreshRequest{Refresh: tr.Refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	rr := decode[gateway.RefreshResponse](t, raw)
	require.NotEmpty(t, rr.Access)
	require.Empty(t, rr.Refresh)

	resp, _ = f.do(t, http.MethodPost, server.RouteAuthRefresh, "", gateway.RefreshRequest{Refresh: "nope"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := setupTestFixture(t)
	tr := f.login(t, tenantEmail, tenantPass)

	resp, _ := f.do(t, http.MethodPost, server.RouteAuthLogout, tr.Access, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, server.RouteAuthRefresh, "", gateway.RefreshRequest{Refresh: tr.Refresh})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	f := setupTestFixture(t)

	req := gateway.RegisterRequest{
		Email:           "new@demo.com",
		FullName:        "Lê Văn C",
		Role:            "TENANT",
		Password:        "Secret123",
		PasswordConfirm: "Secret124",
	}
	resp, raw := f.do(t, http.MethodPost, server.RouteAuthRegister, "", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, []string{gateway.MsgPasswordMismatch}, decode[map[string][]string](t, raw)["password_confirm"])

	req.PasswordConfirm = req.Password
	resp, raw = f.do(t, http.MethodPost, server.RouteAuthRegister, "", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = f.do(t, http.MethodPost, server.RouteAuthRegister, "", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[map[string][]string](t, raw), "email")

	tr := f.login(t, "new@demo.com", "Secret123")
	require.Equal(t, "Lê Văn C", tr.User.FullName)
}

func TestRegister_WeakPassword(t *testing.T) {
	f := setupTestFixture(t)
	resp, raw := f.do(t, http.MethodPost, server.RouteAuthRegister, "", gateway.RegisterRequest{
		Email: "weak@demo.com", FullName: "Weak", Role: "TENANT", Password: "short", PasswordConfirm: "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[map[string][]string](t, raw), "password")
}

func TestValidatePassword(t *testing.T) {
	f := setupTestFixture(t)
	resp, raw := f.do(t, http.MethodPost, server.RouteAuthValidatePassword, "", map[string]string{"password": "abc"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"valid":false`)
}

func TestMe_RequiresValidToken(t *testing.T) {
	f := setupTestFixture(t)

	resp, _ := f.do(t, http.MethodGet, server.RouteAuthMe, "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, server.RouteAuthMe, "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	tr := f.login(t, tenantEmail, tenantPass)
	resp, raw := f.do(t, http.MethodGet, server.RouteAuthMe, tr.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, tenantEmail, decode[map[string]any](t, raw)["email"])
}

func TestListRooms_ByRole(t *testing.T) {
	f := setupTestFixture(t)

	owner := f.login(t, ownerEmail, ownerPassword)
	resp, raw := f.do(t, http.MethodGet, server.RouteRooms, owner.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 10, decode[gateway.Page[gateway.Room]](t, raw).Count)

	// seven vacant rooms plus the one the tenant rents
	tenant := f.login(t, tenantEmail, tenantPass)
	resp, raw = f.do(t, http.MethodGet, server.RouteRooms, tenant.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 8, decode[gateway.Page[gateway.Room]](t, raw).Count)

	resp, _ = f.do(t, http.MethodGet, "/api/rooms/9/", tenant.Access, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListRooms_FilterSortAndPaginate(t *testing.T) {
	f := setupTestFixture(t)
	owner := f.login(t, ownerEmail, ownerPassword)

	resp, raw := f.do(t, http.MethodGet, "/api/rooms/?status=EMPTY&building=1&ordering=-base_price", owner.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[gateway.Page[gateway.Room]](t, raw)
	require.Equal(t, 3, page.Count)
	require.Equal(t, "Phòng A205", page.Results[0].Name)

	resp, raw = f.do(t, http.MethodGet, "/api/rooms/?page_size=4&page=2", owner.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[gateway.Page[gateway.Room]](t, raw)
	require.Len(t, page.Results, 4)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	require.Contains(t, *page.Next, "page=3")

	resp, _ = f.do(t, http.MethodGet, "/api/rooms/?page=99", owner.Access, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = f.do(t, http.MethodGet, "/api/rooms/?min_price=abc", owner.Access, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[map[string][]string](t, raw), "min_price")
}

func TestRoomWrites_OwnerOnly(t *testing.T) {
	f := setupTestFixture(t)
	tenant := f.login(t, tenantEmail, tenantPass)
	owner := f.login(t, ownerEmail, ownerPassword)

	in := map[string]any{"name": "Phòng E501", "base_price": "3900000", "building": 5}
	resp, _ := f.do(t, http.MethodPost, server.RouteRooms, tenant.Access, in)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := f.do(t, http.MethodPost, server.RouteRooms, owner.Access, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	created := decode[gateway.Room](t, raw)
	require.Equal(t, 11, created.ID)
	require.Equal(t, gateway.RoomEmpty, created.Status)

	resp, raw = f.do(t, http.MethodPost, server.RouteRooms, owner.Access, in)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[map[string][]string](t, raw), "name")

	resp, raw = f.do(t, http.MethodPatch, "/api/rooms/11/", owner.Access, map[string]any{"status": "MAINT"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, gateway.RoomMaintenance, decode[gateway.Room](t, raw).Status)

	resp, _ = f.do(t, http.MethodDelete, "/api/rooms/11/", owner.Access, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// room 1 has an active contract
	resp, _ = f.do(t, http.MethodDelete, "/api/rooms/1/", owner.Access, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestContracts_Lifecycle(t *testing.T) {
	f := setupTestFixture(t)
	server.NowTimeFunc = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { server.NowTimeFunc = time.Now })
	owner := f.login(t, ownerEmail, ownerPassword)

	in := map[string]any{"room": 2, "tenant": 3, "start_date": "2024-05-01", "end_date": "2025-04-30", "deposit": "9000000"}
	resp, raw := f.do(t, http.MethodPost, server.RouteContracts, owner.Access, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	c := decode[gateway.Contract](t, raw)
	require.Equal(t, gateway.ContractActive, c.Status)
	require.Equal(t, "Phòng B102", c.RoomName)
	require.Equal(t, "Trần Thị B", c.TenantName)
	require.Equal(t, "MONTHLY", c.BillingCycle)

	room, err := f.repos.Rooms.Get(2)
	require.NoError(t, err)
	require.Equal(t, gateway.RoomRented, room.Status)

	// the room is taken now
	resp, raw = f.do(t, http.MethodPost, server.RouteContracts, owner.Access, in)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[map[string][]string](t, raw), "non_field_errors")

	resp, raw = f.do(t, http.MethodPost, "/api/contracts/4/end/", owner.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	ended := decode[gateway.Contract](t, raw)
	require.Equal(t, gateway.ContractEnded, ended.Status)
	require.Equal(t, "2024-06-01", *ended.EndDate)

	room, err = f.repos.Rooms.Get(2)
	require.NoError(t, err)
	require.Equal(t, gateway.RoomEmpty, room.Status)

	resp, _ = f.do(t, http.MethodPost, "/api/contracts/4/end/", owner.Access, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContracts_Validation(t *testing.T) {
	f := setupTestFixture(t)
	owner := f.login(t, ownerEmail, ownerPassword)

	resp, raw := f.do(t, http.MethodPost, server.RouteContracts, owner.Access, map[string]any{
		"room": 404, "tenant": 2, "start_date": "01/05/2024", "deposit": "-1",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fe := decode[map[string][]string](t, raw)
	require.Contains(t, fe, "room")
	require.Contains(t, fe, "tenant")
	require.Contains(t, fe, "start_date")
	require.Contains(t, fe, "deposit")
}

func TestContracts_TenantSeesOwn(t *testing.T) {
	f := setupTestFixture(t)
	tenant := f.login(t, tenantEmail, tenantPass)

	resp, raw := f.do(t, http.MethodGet, server.RouteContracts, tenant.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[gateway.Page[gateway.Contract]](t, raw)
	require.Equal(t, 2, page.Count)
	for _, c := range page.Results {
		require.Equal(t, 1, c.Tenant)
	}

	resp, _ = f.do(t, http.MethodGet, "/api/contracts/2/", tenant.Access, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = f.do(t, http.MethodGet, "/api/contracts/?status=active", tenant.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, decode[gateway.Page[gateway.Contract]](t, raw).Count)
}

func TestCorsPreflight(t *testing.T) {
	f := setupTestFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.ts.URL+server.RouteRooms, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	f := setupTestFixture(t)
	resp, raw := f.do(t, http.MethodGet, "/api/nothing/", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Not found."}`, string(raw))
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRecoverMiddleware(t *testing.T) {
	f := setupTestFixture(t)
	h := server.ChainMiddleware(func(http.ResponseWriter, *http.Request) { panic("boom") }, f.srv.RecoverMiddleware)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
