package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recordgate/internal/service"
)

// RegisterUser creates a profile in the registration directory.
//
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Profile"
// @Success 201 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /auth/register [post]
func RegisterUser(svc service.UserService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// GetUser returns the profile registered for a wallet address.
//
// @Summary Get a user
// @Tags auth
// @Produce json
// @Param walletAddress path string true "Wallet address"
// @Success 200 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /auth/user/{walletAddress} [get]
func GetUser(svc service.UserService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.GetByWallet(c.UserContext(), c.Params("walletAddress"))
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(u)
	}
}

// ListUsers lists registered profiles with limit & offset.
//
// @Summary List users
// @Tags auth
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.UserListResult
// @Failure 400 {object} errorPayload
// @Router /auth/users [get]
func ListUsers(svc service.UserService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(res)
	}
}
