package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/usermgmt/internal/handlers"
	"github.com/vaughan-dsouza/usermgmt/internal/middleware"
	"github.com/vaughan-dsouza/usermgmt/internal/models"
)

// memUsers is an in-memory user service used to drive the full route table.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, users: make(map[int64]models.User)}
}

func (m *memUsers) sorted() []models.User {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		u.Password = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memUsers) ListAll(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memUsers) Get(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Password = ""
	return &u, nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, name, email, password string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.users[id] = models.User{ID: id, Name: name, Email: email, Password: "hashed:" + password}
	return 1, nil
}

func (m *memUsers) Update(_ context.Context, id int64, name, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	u.Name, u.Email = name, email
	m.users[id] = u
	return 1, nil
}

func (m *memUsers) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func (m *memUsers) SearchByName(_ context.Context, fragment string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0)
	for _, u := range m.sorted() {
		if strings.Contains(u.Name, fragment) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Login(_ context.Context, email, password string) (*models.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.Password == "hashed:"+password {
			return &models.LoginResult{
				Status:         models.LoginSuccess,
				UserID:         u.ID,
				WelcomeMessage: "Welcome " + u.Name,
				EmailMessage:   "You are logged in with " + email,
			}, nil
		}
	}
	return &models.LoginResult{Status: models.LoginFailed}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := handlers.NewHandler(newMemUsers(), okPinger{})
	srv := httptest.NewServer(New(h, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func TestRouter_CreateThenGetScenario(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/users", `{"name":"A","email":"a@b.com","password":"ab1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodPost, "/users", `{"name":"A","email":"a@b.com","password":"abc123"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, body := do(t, srv, http.MethodGet, "/user/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["name"] != "A" || got["email"] != "a@b.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, leaked := got["password"]; leaked {
		t.Fatalf("password leaked: %+v", got)
	}

	resp, _ = do(t, srv, http.MethodPost, "/users", `{"name":"A2","email":"a@b.com","password":"abc123"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	_, body = do(t, srv, http.MethodGet, "/users", "")
	var all []models.User
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("duplicate must not insert, got %d users", len(all))
	}
}

func TestRouter_UpdateDeleteLifecycle(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/users", `{"name":"John Doe","email":"john@example.com","password":"password123"}`)

	resp, _ := do(t, srv, http.MethodPut, "/user/99", `{"name":"X","email":"x@y.com"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 updating missing user, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodPut, "/user/1", `{"name":"John D","email":"jd@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, body := do(t, srv, http.MethodDelete, "/user/1", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "User 1 deleted successfully") {
		t.Fatalf("unexpected delete response %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodGet, "/user/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodDelete, "/user/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", resp.StatusCode)
	}
}

func TestRouter_SearchAndLogin(t *testing.T) {
	srv := newTestServer(t)

	for _, u := range []struct{ name, email, pw string }{
		{"John Doe", "john@example.com", "password123"},
		{"Jane Smith", "jane@example.com", "secret456"},
		{"Bob Johnson", "bob@example.com", "qwerty789"},
	} {
		resp, _ := do(t, srv, http.MethodPost, "/users",
			fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, u.name, u.email, u.pw))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed %s: got %d", u.name, resp.StatusCode)
		}
	}

	_, body := do(t, srv, http.MethodGet, "/search?name=oh", "")
	var found []models.User
	if err := json.Unmarshal(body, &found); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(found) != 2 || found[0].Name != "John Doe" || found[1].Name != "Bob Johnson" {
		t.Fatalf("unexpected search result: %+v", found)
	}

	resp, _ := do(t, srv, http.MethodGet, "/search", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without name, got %d", resp.StatusCode)
	}

	resp, body = do(t, srv, http.MethodPost, "/login", `{"email":"jane@example.com","password":"secret456"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var ok map[string]any
	_ = json.Unmarshal(body, &ok)
	if ok["status"] != "success" || ok["user_id"] != float64(2) {
		t.Fatalf("unexpected login body: %+v", ok)
	}

	resp, wrongPw := do(t, srv, http.MethodPost, "/login", `{"email":"jane@example.com","password":"nope123"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	resp, unknown := do(t, srv, http.MethodPost, "/login", `{"email":"ghost@example.com","password":"secret456"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if string(wrongPw) != string(unknown) {
		t.Fatalf("failure bodies differ: %s vs %s", wrongPw, unknown)
	}
}

func TestRouter_NonIntegerIDIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/user/abc", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRouter_AmbientRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /, got %d", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}

	resp, _ = do(t, srv, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", resp.StatusCode)
	}

	resp, body := do(t, srv, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "usermgmt_http_requests_total") {
		t.Fatalf("expected request metrics to be exported, got %d", resp.StatusCode)
	}
}
