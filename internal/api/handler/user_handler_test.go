package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

type stubUserService struct {
	listFn    func(ctx context.Context) ([]domain.User, error)
	getFn     func(ctx context.Context, id string) (domain.User, error)
	createFn  func(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error)
	replaceFn func(ctx context.Context, id string, u domain.User) (domain.User, error)
	patchFn   func(ctx context.Context, id string, f domain.Fields) (domain.User, error)
	deleteFn  func(ctx context.Context, id string) (domain.User, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) ReplaceUser(ctx context.Context, id string, u domain.User) (domain.User, error) {
	return s.replaceFn(ctx, id, u)
}

func (s *stubUserService) PatchUser(ctx context.Context, id string, f domain.Fields) (domain.User, error) {
	return s.patchFn(ctx, id, f)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	return s.deleteFn(ctx, id)
}

func newContext(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success=true, got %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %+v", resp["data"])
	}
	return data
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
			if in.User.ID != "" {
				t.Fatalf("client id must be dropped, got %q", in.User.ID)
			}
			if in.User.Extra["age"] != float64(36) {
				t.Fatalf("extra attributes must be kept, got %+v", in.User.Extra)
			}
			u := in.User
			u.ID = "gen-1"
			return &ports.CreateUserResult{User: u}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/users", `{"id":"mine","name":"Ada","bio":"math","age":36}`, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["id"] != "gen-1" || data["name"] != "Ada" || data["bio"] != "math" || data["age"] != float64(36) {
		t.Fatalf("unexpected user payload: %+v", data)
	}
	if rec.Header().Get(HeaderIdempotentReplayed) != "" {
		t.Fatal("fresh create must not be marked as replay")
	}
}

func TestUserHandler_Create_MissingBio(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/users", `{"name":"Ada"}`, "")
	err := h.Create(c)
	if !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
	if !strings.Contains(err.Error(), "bio is required") {
		t.Fatalf("expected field detail in error, got %q", err.Error())
	}
}

func TestUserHandler_Create_EmptyBody(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newContext(http.MethodPost, "/api/users", "", "")
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestUserHandler_Create_InvalidPayload(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newContext(http.MethodPost, "/api/users", "not-json", "")
	if code := httpCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestUserHandler_Create_NonStringName(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newContext(http.MethodPost, "/api/users", `{"name":42,"bio":"x"}`, "")
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestUserHandler_Create_ServiceFailure(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
			return nil, errors.New("boom")
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/users", `{"name":"Ada","bio":"math"}`, "")
	err := h.Create(c)
	if code := httpCode(t, err); code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if !strings.Contains(err.Error(), msgSaveFailed) {
		t.Fatalf("expected save failure message, got %q", err.Error())
	}
}

func TestUserHandler_Create_IdempotentReplay(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
			if in.IdempotencyKey != "key-1" {
				t.Fatalf("expected idempotency key, got %q", in.IdempotencyKey)
			}
			return &ports.CreateUserResult{User: domain.User{ID: "gen-1", Name: "Ada", Bio: "math"}, AlreadyExisted: true}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/users", `{"name":"Ada","bio":"math"}`, "")
	c.Request().Header.Set(HeaderIdempotencyKey, "key-1")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(HeaderIdempotentReplayed) != "true" {
		t.Fatal("expected replay header")
	}
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{{ID: "a", Name: "Ada", Bio: "math"}, {ID: "b", Name: "Grace", Bio: "navy"}}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/users", "", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || len(resp.Data) != 2 || resp.Data[0]["id"] != "a" || resp.Data[1]["id"] != "b" {
		t.Fatalf("unexpected list payload: %s", rec.Body.String())
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (domain.User, error) {
			if id != "unknown-id" {
				t.Fatalf("unexpected id %q", id)
			}
			return domain.User{}, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodGet, "/api/users/unknown-id", "", "unknown-id")
	if err := h.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Replace_ForcesPathID(t *testing.T) {
	stub := &stubUserService{
		replaceFn: func(ctx context.Context, id string, u domain.User) (domain.User, error) {
			if id != "abc" {
				t.Fatalf("unexpected id %q", id)
			}
			u.ID = id
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPut, "/api/users/abc", `{"id":"other","name":"Grace","bio":"navy"}`, "abc")
	if err := h.Replace(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["id"] != "abc" || data["name"] != "Grace" {
		t.Fatalf("unexpected user payload: %+v", data)
	}
}

func TestUserHandler_Replace_MissingName(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newContext(http.MethodPut, "/api/users/abc", `{"bio":"navy"}`, "abc")
	if err := h.Replace(c); !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestUserHandler_Patch_PassesFieldsThrough(t *testing.T) {
	stub := &stubUserService{
		patchFn: func(ctx context.Context, id string, f domain.Fields) (domain.User, error) {
			if len(f) != 1 || f["bio"] != "new bio" {
				t.Fatalf("unexpected fields: %+v", f)
			}
			return domain.User{ID: id, Name: "Ada", Bio: "new bio"}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPatch, "/api/users/abc", `{"bio":"new bio"}`, "abc")
	if err := h.Patch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeData(t, rec)
	if data["name"] != "Ada" || data["bio"] != "new bio" {
		t.Fatalf("unexpected user payload: %+v", data)
	}
}

func TestUserHandler_Patch_NoPresenceValidation(t *testing.T) {
	called := false
	stub := &stubUserService{
		patchFn: func(ctx context.Context, id string, f domain.Fields) (domain.User, error) {
			called = true
			return domain.User{ID: id}, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodPatch, "/api/users/abc", `{"city":"London"}`, "abc")
	if err := h.Patch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("service not called")
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Name: "Ada", Bio: "math"}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/users/abc", "", "abc")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if data := decodeData(t, rec); data["id"] != "abc" {
		t.Fatalf("unexpected user payload: %+v", data)
	}
}

func TestRootHandler_Hello(t *testing.T) {
	h := NewRootHandler()

	c, rec := newContext(http.MethodGet, "/", "", "")
	if err := h.Hello(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Message != "Hello World!" {
		t.Fatalf("unexpected greeting: %+v", resp)
	}
}
