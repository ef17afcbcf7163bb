package weekly

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/dto"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/logging"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GoalHandler struct {
	service *GoalService
}

func NewGoalHandler(service *GoalService) *GoalHandler {
	return &GoalHandler{service: service}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// serviceError maps service errors to responses; fallback is the 500 message.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Errors: verr.Messages,
		})
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrTitleTooLong):
		return badRequest(c, err.Error())
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrUserGoalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	logging.RequestError(c, fallback, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}

func (h *GoalHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return serviceError(c, err, "Failed to fetch categories")
	}
	return c.JSON(categories)
}

func (h *GoalHandler) ListGoals(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	goals, err := h.service.ListGoals(userID, categoryID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch goals")
	}
	return c.JSON(goals)
}

func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	var req CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	goal, err := h.service.CreateCustomGoal(userID, categoryID, req)
	if err != nil {
		return serviceError(c, err, "Failed to create goal")
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (h *GoalHandler) Recommendations(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var categoryID *uuid.UUID
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid category ID")
		}
		categoryID = &id
	}

	recs, err := h.service.Recommendations(userID, categoryID)
	if err != nil {
		return serviceError(c, err, "Failed to compute recommendations")
	}
	return c.JSON(RecommendationsResponse{Recommendations: recs})
}

func (h *GoalHandler) WeekGoals(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.service.WeekGoals(userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch weekly goals")
	}
	return c.JSON(resp)
}

func (h *GoalHandler) SelectGoals(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req SelectGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.service.SelectGoals(userID, req.GoalIDs)
	if err != nil {
		return serviceError(c, err, "Failed to save selection")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *GoalHandler) CompleteGoal(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	userGoalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid goal ID")
	}

	var req CompleteGoalRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	resp, err := h.service.CompleteGoal(userID, userGoalID, req.Completed)
	if err != nil {
		return serviceError(c, err, "Failed to update goal")
	}
	return c.JSON(resp)
}

func (h *GoalHandler) Progress(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.service.Progress(userID)
	if err != nil {
		return serviceError(c, err, "Failed to compute progress")
	}
	return c.JSON(resp)
}

func (h *GoalHandler) Achievements(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rows, err := h.service.Achievements(userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch achievements")
	}
	return c.JSON(rows)
}
