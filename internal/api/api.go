package api

import (
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"strconv"
	"user-management-service/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// credentials reads the username and password query parameters. A parameter
// that is present with an empty value counts as given.
func credentials(c echo.Context) (username, password string, ok bool) {
	params := c.QueryParams()
	if _, has := params["username"]; !has {
		return "", "", false
	}
	if _, has := params["password"]; !has {
		return "", "", false
	}
	return params.Get("username"), params.Get("password"), true
}

// CreateUser creates a user or updates its password --> POST /users
func (h *UserHandler) CreateUser(c echo.Context) error {
	username, password, ok := credentials(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "username and password are required"})
	}

	_, created := h.userService.CreateUser(c.Request().Context(), username, password)
	if created {
		return c.JSON(201, map[string]string{"message": "user registered successfully"})
	}
	return c.JSON(400, map[string]string{"message": "user already exists, password updated"})
}

// Login checks credentials --> POST /users/login
func (h *UserHandler) Login(c echo.Context) error {
	username, password, ok := credentials(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "username and password are required"})
	}

	token, err := h.userService.Login(c.Request().Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(406, map[string]string{"error": "could not authenticate"})
		}
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	resp := map[string]string{"message": "logged in successfully"}
	if token != "" {
		resp["token"] = token
	}
	return c.JSON(202, resp)
}

// GetUserByID retrieves a user by ID --> GET /users/:id
// An unknown id yields a null body with status 200.
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	user, ok := h.userService.GetUserByID(c.Request().Context(), id)
	if !ok {
		return c.JSON(200, nil)
	}
	return c.JSON(200, user)
}

// UserExists --> GET /users/exists/:username, always 200.
func (h *UserHandler) UserExists(c echo.Context) error {
	return c.JSON(200, h.userService.UserExists(c.Request().Context(), c.Param("username")))
}

// GetUserByUsername --> GET /user?username=
func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	if _, has := c.QueryParams()["username"]; !has {
		return c.JSON(400, map[string]string{"error": "username is required"})
	}

	user, ok := h.userService.GetUserByUsername(c.Request().Context(), c.QueryParam("username"))
	if !ok {
		return c.JSON(200, nil)
	}
	return c.JSON(200, user)
}

// ListUsers --> GET /users
func (h *UserHandler) ListUsers(c echo.Context) error {
	return c.JSON(200, h.userService.ListUsers(c.Request().Context()))
}

// ValidateSession validates the bearer token --> GET /users/session
// The JWT middleware has already verified the signature and expiry.
func (h *UserHandler) ValidateSession(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}
	claims, ok := token.Claims.(*service.JwtCustomClaims)
	if !ok || claims.Name == "" {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if err := h.userService.ValidateSession(c.Request().Context(), claims.Name, token.Raw); err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			return c.JSON(401, map[string]string{"error": err.Error()})
		}
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"username": claims.Name})
}
