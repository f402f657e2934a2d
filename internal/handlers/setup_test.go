package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/handlers"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository/mock"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/testutil"
)

// testSetup holds everything a handler test needs
type testSetup struct {
	repo       repository.FullRepository
	svc        handlers.Services
	handlers   *handlers.Handlers
	router     chi.Router
	authCookie *http.Cookie
}

// testTemplates is a minimal template set for page tests
var testTemplates = fstest.MapFS{
	"index.html":        &fstest.MapFile{Data: []byte(`<html><body><h1>{{.StoreName}}</h1>{{range .Products}}<a>{{.Name}}</a>{{end}}</body></html>`)},
	"product.html":      &fstest.MapFile{Data: []byte(`<html><body><h1>{{.Product.Name}}</h1><div data-id="{{.Product.ID}}"></div></body></html>`)},
	"admin/login.html":  &fstest.MapFile{Data: []byte(`<html><body><h1>Login Page</h1>{{if .Error}}<p>{{.Error}}</p>{{end}}</body></html>`)},
	"admin/layout.html": &fstest.MapFile{Data: []byte(`{{define "admin"}}<html><body><h1>{{.PageTitle}}</h1>{{template "content" .}}</body></html>{{end}}`)},
	"admin/stock.html":  &fstest.MapFile{Data: []byte(`{{define "content"}}<div>Stock Content</div>{{end}}`)},
}

func newServices(repo repository.FullRepository) handlers.Services {
	log := logger.Nop()
	settings := services.NewSettingsService(log, repo)
	stock := services.NewStockService(log, repo)
	account := services.NewAccountService(log, repo)
	account.SetHashCost(bcrypt.MinCost)
	return handlers.Services{
		Catalog:  services.NewCatalogService(log, repo, settings),
		Stock:    stock,
		Cart:     services.NewCartService(log, repo, stock),
		Preorder: services.NewPreorderService(log, repo),
		Account:  account,
		Settings: settings,
	}
}

// newTestSetup creates a test setup over an in-memory repository; templates
// are not loaded, so only API routes are usable
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	return newTestSetupWithRepo(t, testutil.NewTestRepository(t))
}

func newTestSetupWithRepo(t *testing.T, repo repository.FullRepository) *testSetup {
	t.Helper()
	svc := newServices(repo)
	h := handlers.NewForTesting(svc)
	return finishSetup(repo, svc, h)
}

// newTestSetupWithMockRepo wraps the in-memory repository with injectable errors
func newTestSetupWithMockRepo(t *testing.T) (*testSetup, *mock.Repository) {
	t.Helper()
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	return newTestSetupWithRepo(t, mockRepo), mockRepo
}

// newTestSetupWithTemplates loads the test templates so page routes render
func newTestSetupWithTemplates(t *testing.T) *testSetup {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	svc := newServices(repo)
	h, err := handlers.New(svc, testTemplates, handlers.NewStaticServer(fstest.MapFS{}),
		auth.New("test-password"), auth.NewCustomers(), nil, logger.Nop())
	if err != nil {
		t.Fatalf("failed to create handlers: %v", err)
	}
	return finishSetup(repo, svc, h)
}

func finishSetup(repo repository.FullRepository, svc handlers.Services, h *handlers.Handlers) *testSetup {
	// Login to get a session cookie for authenticated requests
	token, _ := h.Auth.Login("test-password")
	return &testSetup{
		repo:       repo,
		svc:        svc,
		handlers:   h,
		router:     h.Router(),
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

// seed inserts a product with stock
func (s *testSetup) seed(t *testing.T, p models.Product, stock ...models.StockItem) models.Product {
	t.Helper()
	return testutil.SeedProduct(t, s.repo, p, stock)
}

// do sends a request through the router. body is JSON-encoded unless it is
// nil or already a string.
func (s *testSetup) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into v
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// expectError checks the status and error code of an API error response
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
		return
	}
	var apiErr struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	decode(t, rec, &apiErr)
	if apiErr.Code != code {
		t.Errorf("expected code %q, got %q (%s)", code, apiErr.Code, apiErr.Error)
	}
}

// cookieNamed returns the named cookie set by a response
func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var tee = models.Product{
	Slug: "core-tee", Name: "Core Tee", Description: "Heavyweight cotton tee", Price: 2500, Active: true,
	Sizes: []string{"S", "M"}, Colors: []string{"Red", "Blue"},
}
