package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RootHandler answers the greeting endpoints.
type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// Hello handles GET /.
//
// @Summary      Greeting
// @Tags         root
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       / [get]
func (h *RootHandler) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Hello World!"})
}

// HelloAPI handles GET /api.
//
// @Summary      API greeting
// @Tags         root
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api [get]
func (h *RootHandler) HelloAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Hello API!"})
}
