package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/dto"
	"github.com/promptmaster/backend/internal/middleware"
	"github.com/promptmaster/backend/internal/repository"
	"github.com/promptmaster/backend/internal/services"
)

type TemplateHandler struct {
	templateService  *services.TemplateService
	recommendService *services.RecommendService
	analyticsService *services.AnalyticsService
}

func NewTemplateHandler(
	templateService *services.TemplateService,
	recommendService *services.RecommendService,
	analyticsService *services.AnalyticsService,
) *TemplateHandler {
	return &TemplateHandler{
		templateService:  templateService,
		recommendService: recommendService,
		analyticsService: analyticsService,
	}
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.templateService.Create(c.UserContext(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired),
			errors.Is(err, services.ErrContentRequired),
			errors.Is(err, services.ErrInvalidCategory):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	params := services.TemplateListParams{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
	}

	resp, err := h.templateService.List(c.UserContext(), params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) || errors.Is(err, services.ErrInvalidSort) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid template id",
		})
	}

	resp, err := h.templateService.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Template not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

func (h *TemplateHandler) RecordUsage(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid template id",
		})
	}

	var req dto.RecordUsageRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid request body",
			})
		}
	}

	if err := h.templateService.RecordUsage(c.UserContext(), templateID, userID, req.Context); err != nil {
		switch {
		case errors.Is(err, services.ErrTemplateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Template not found",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		case errors.Is(err, repository.ErrConflict):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Temporary conflict, please retry",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"message": "Usage recorded"})
}

func (h *TemplateHandler) AddComment(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid template id",
		})
	}

	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.templateService.AddComment(c.UserContext(), templateID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating), errors.Is(err, services.ErrContentRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrTemplateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Template not found",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		case errors.Is(err, repository.ErrConflict):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Temporary conflict, please retry",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *TemplateHandler) Recommended(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	resp, err := h.recommendService.Recommend(c.UserContext(), userID)
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

	return c.JSON(fiber.Map{"templates": resp})
}

func (h *TemplateHandler) Analytics(c *fiber.Ctx) error {
	resp, err := h.analyticsService.Report(c.UserContext(), c.Query("range", "week"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidTimeRange) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}
