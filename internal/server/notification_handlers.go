package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// @Summary List notifications
// @Description List the current user's notifications, newest first
// @Tags notifications
// @Produce json
// @Success 200 {array} models.NotificationView
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	list, err := s.notificationService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MarkNotificationRead handles POST /api/notifications/:id/read
// @Summary Mark notification read
// @Description Mark one of the current user's notifications as read
// @Tags notifications
// @Produce json
// @Param id path integer true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
// @Summary Mark all notifications read
// @Description Mark every unread notification of the current user as read
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	n, err := s.notificationService.MarkAllRead(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// DeleteNotification handles DELETE /api/notifications/:id
// @Summary Delete notification
// @Description Delete one of the current user's notifications
// @Tags notifications
// @Produce json
// @Param id path integer true "Notification ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ok, err := s.policy.IsNotificationOwner(ctx, id, currentEmail(c))
	if requireOwner(c, ok, err, "You can only delete your own notifications") != nil {
		return nil
	}

	if err := s.notificationService.Delete(ctx, id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllNotifications handles DELETE /api/notifications
// @Summary Delete all notifications
// @Description Delete every notification of the current user
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications [delete]
func (s *Server) DeleteAllNotifications(c *fiber.Ctx) error {
	n, err := s.notificationService.DeleteAll(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}
