package audit

import (
	"errors"

	"foodcost-backend/internal/auth"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserEmail   string             `json:"user_email"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *uint              `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /api/audit-logs?entity_type=order&entity_id=1&user_id=2&limit=50
func (r *Recorder) ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.Page(c)
		if err != nil {
			return err
		}
		page = page.Normalize()
		entityID, err := httpx.QueryUint(c, "entity_id")
		if err != nil {
			return err
		}
		userID, err := httpx.QueryUint(c, "user_id")
		if err != nil {
			return err
		}

		dbq := r.db.WithContext(c.UserContext()).Model(&models.AuditLog{})
		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityID != nil {
			dbq = dbq.Where("entity_id = ?", *entityID)
		}
		if userID != nil {
			dbq = dbq.Where("user_id = ?", *userID)
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC, id DESC").Offset(page.Skip).Limit(page.Limit).Find(&logs).Error; err != nil {
			r.log.Error("list audit logs", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			var undoneAt *string
			if l.UndoneAt != nil {
				formatted := l.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAt = &formatted
			}
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      l.UserID,
				UserEmail:   l.UserEmail,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				IsUndone:    l.IsUndone,
				UndoneBy:    l.UndoneBy,
				UndoneAt:    undoneAt,
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func (r *Recorder) UndoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		actor, ok := auth.CurrentActor(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "missing user")
		}

		if err := r.Undo(c.UserContext(), logID, actor); err != nil {
			switch {
			case errors.Is(err, ErrLogNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Audit log not found")
			case errors.Is(err, ErrAlreadyUndone), errors.Is(err, ErrNotUndoable):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				r.log.Error("undo failed", zap.Uint("log_id", logID), zap.Error(err))
				return fiber.NewError(fiber.StatusInternalServerError, "could not undo the change")
			}
		}

		return c.JSON(fiber.Map{"message": "change undone"})
	}
}
