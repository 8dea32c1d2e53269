package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/promptmaster/backend/internal/dto"
	"github.com/promptmaster/backend/internal/middleware"
	"github.com/promptmaster/backend/internal/services"
)

type SceneHandler struct {
	sceneService *services.SceneService
}

func NewSceneHandler(sceneService *services.SceneService) *SceneHandler {
	return &SceneHandler{sceneService: sceneService}
}

func (h *SceneHandler) List(c *fiber.Ctx) error {
	resp, err := h.sceneService.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"scenes": resp})
}

func (h *SceneHandler) Recommended(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	resp, err := h.sceneService.Recommended(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"scenes": resp})
}
