package handler

import "github.com/labstack/echo/v4"

// Response is the envelope for every API response, success or error.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, Response{Status: code, Message: "success", Data: data})
}
