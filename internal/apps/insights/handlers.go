package insights

import (
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/dto"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/logging"
	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	service *AnalyticsService
}

func NewAnalyticsHandler(service *AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func intQuery(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func (h *AnalyticsHandler) respond(c *fiber.Ctx, resp interface{}, err error) error {
	if err != nil {
		if errors.Is(err, ErrWeeksOutOfRange) || errors.Is(err, ErrDaysOutOfRange) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		logging.RequestError(c, "failed to compute analytics", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute analytics",
		})
	}
	return c.JSON(resp)
}

func (h *AnalyticsHandler) WeeklyStats(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	weeks, err := intQuery(c, "weeks", DefaultWeeks)
	if err != nil {
		return h.respond(c, nil, ErrWeeksOutOfRange)
	}
	resp, err := h.service.WeeklyStats(userID, weeks)
	return h.respond(c, resp, err)
}

func (h *AnalyticsHandler) CategoryPerformance(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	resp, err := h.service.CategoryPerformance(userID)
	return h.respond(c, resp, err)
}

func (h *AnalyticsHandler) CompletionTrends(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	days, err := intQuery(c, "days", DefaultDays)
	if err != nil {
		return h.respond(c, nil, ErrDaysOutOfRange)
	}
	resp, err := h.service.CompletionTrends(userID, days)
	return h.respond(c, resp, err)
}

func (h *AnalyticsHandler) AchievementProgression(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	resp, err := h.service.AchievementProgression(userID)
	return h.respond(c, resp, err)
}
