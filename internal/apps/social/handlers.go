package social

import (
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/dto"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SocialHandler struct {
	service *SocialService
}

func NewSocialHandler(service *SocialService) *SocialHandler {
	return &SocialHandler{service: service}
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrCannotFriendSelf),
		errors.Is(err, ErrRequestNotPending),
		errors.Is(err, ErrInvalidVisibility),
		errors.Is(err, ErrQueryRequired),
		errors.Is(err, ErrAddresseeRequired):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrFriendshipNotFound),
		errors.Is(err, ErrAchievementNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, ErrRequestExists):
		return fiber.StatusConflict, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func fail(c *fiber.Ctx, err error) error {
	status, message := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		logging.RequestError(c, "social request failed", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid ID",
	})
}

func limitQuery(c *fiber.Ctx) int {
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultFeedLimit)))
	return limit
}

func (h *SocialHandler) ListFriends(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	friends, err := h.service.ListFriends(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(friends)
}

func (h *SocialHandler) Requests(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.service.PendingRequests(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *SocialHandler) Search(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	results, err := h.service.Search(userID, c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(results)
}

func (h *SocialHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req FriendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	friendship, err := h.service.SendRequest(userID, req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(friendship)
}

func (h *SocialHandler) Accept(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	friendship, err := h.service.Accept(userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(friendship)
}

func (h *SocialHandler) Decline(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	friendship, err := h.service.Decline(userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(friendship)
}

func (h *SocialHandler) Remove(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	if err := h.service.Remove(userID, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SocialHandler) Feed(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	feed, err := h.service.Feed(userID, limitQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(feed)
}

func (h *SocialHandler) Share(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	var req ShareRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid request body",
			})
		}
	}

	shared, err := h.service.Share(userID, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(shared)
}

func (h *SocialHandler) SharedAchievements(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	shared, err := h.service.SharedAchievements(userID, limitQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(shared)
}
