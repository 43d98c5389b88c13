package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"

	msgInvalidPayload = "invalid payload"
	msgSaveFailed     = "There was an internal error while saving the user."
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  userListResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Success: true, Data: users})
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, Data: u})
}

// Create handles POST /api/users. Any id in the body is ignored.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string       false  "Key that makes retries return the user created first"
// @Param        body             body      userRequest  true   "User attributes; extra attributes are stored as given"
// @Success      201              {object}  userResponse
// @Failure      400              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	candidate, err := h.bindUser(c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		User:           candidate,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, msgSaveFailed).SetInternal(err)
	}

	if result.AlreadyExisted {
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
	}
	return c.JSON(http.StatusCreated, userResponse{Success: true, Data: result.User})
}

// Replace handles PUT /api/users/:id. The stored id is always the path id.
//
// @Summary      Replace a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "User id"
// @Param        body  body      userRequest  true  "Complete user record"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Replace(c echo.Context) error {
	candidate, err := h.bindUser(c)
	if err != nil {
		return err
	}

	u, err := h.service.ReplaceUser(c.Request().Context(), c.Param("id"), candidate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, Data: u})
}

// Patch handles PATCH /api/users/:id with a shallow merge and no presence checks.
//
// @Summary      Partially update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "User id"
// @Param        body  body      map[string]any  true  "Attributes to overwrite"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Patch(c echo.Context) error {
	var fields domain.Fields
	if err := bindBody(c, &fields); err != nil {
		return err
	}

	u, err := h.service.PatchUser(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, Data: u})
}

// Delete handles DELETE /api/users/:id and returns the removed record.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	u, err := h.service.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, Data: u})
}

// bindUser decodes a full user record and checks that name and bio are present.
func (h *UserHandler) bindUser(c echo.Context) (domain.User, error) {
	var fields domain.Fields
	if err := bindBody(c, &fields); err != nil {
		return domain.User{}, err
	}

	candidate, err := domain.User{}.Merge(fields)
	if err != nil {
		return domain.User{}, err
	}

	if err := c.Validate(&userRequest{Name: candidate.Name, Bio: candidate.Bio}); err != nil {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrInvalidUser, err.Error())
	}
	return candidate, nil
}

// bindBody decodes only the request body; path params never leak into dst.
// An empty body leaves dst untouched.
func bindBody(c echo.Context, dst any) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code != http.StatusBadRequest {
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidPayload).SetInternal(err)
	}
	return nil
}
