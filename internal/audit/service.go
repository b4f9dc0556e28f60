package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foodcost-backend/internal/auth"
	"foodcost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EntityIngredient        = "ingredient"
	EntityProduct           = "product"
	EntityRecipe            = "recipe"
	EntityOrder             = "order"
	EntityInventoryMovement = "inventory_movement"
	EntityRider             = "rider"
)

var (
	ErrAlreadyUndone = errors.New("this change was already undone")
	ErrNotUndoable   = errors.New("this kind of change cannot be undone")
	ErrLogNotFound   = errors.New("audit log not found")
)

// entityModels builds an empty model for each audited entity type.
var entityModels = map[string]func() any{
	EntityIngredient:        func() any { return &models.Ingredient{} },
	EntityProduct:           func() any { return &models.Product{} },
	EntityRecipe:            func() any { return &models.Recipe{} },
	EntityOrder:             func() any { return &models.Order{} },
	EntityInventoryMovement: func() any { return &models.InventoryMovement{} },
	EntityRider:             func() any { return &models.Rider{} },
}

type Entry struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log.Named("audit")}
}

// Write stores one audit log entry for the given actor.
func (r *Recorder) Write(ctx context.Context, actor auth.Actor, e Entry) error {
	entry := models.AuditLog{
		UserID:      actor.UserID,
		UserEmail:   actor.Email,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: truncate(e.Description, 255),
		BeforeData:  toJSON(e.Before),
		AfterData:   toJSON(e.After),
	}

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Record writes an entry for the request's authenticated user. Failures are
// logged and never reach the client.
func (r *Recorder) Record(c *fiber.Ctx, e Entry) {
	actor, _ := auth.CurrentActor(c)
	if err := r.Write(c.UserContext(), actor, e); err != nil {
		r.log.Error("audit log not written",
			zap.String("entity_type", e.EntityType),
			zap.Uint("entity_id", e.EntityID),
			zap.String("action", string(e.Action)),
			zap.Error(err),
		)
	}
}

// Undo reverts the change recorded by the log: a create is deleted, an
// update restores the previous state and a delete re-inserts the record.
func (r *Recorder) Undo(ctx context.Context, logID uint, actor auth.Actor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.AuditLog
		if err := tx.First(&entry, logID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLogNotFound
			}
			return fmt.Errorf("load audit log: %w", err)
		}
		if entry.IsUndone {
			return ErrAlreadyUndone
		}

		newModel, ok := entityModels[entry.EntityType]
		if !ok {
			return fmt.Errorf("%w: unknown entity type %q", ErrNotUndoable, entry.EntityType)
		}

		switch entry.Action {
		case models.AuditActionCreate:
			if err := tx.Delete(newModel(), entry.EntityID).Error; err != nil {
				return fmt.Errorf("delete %s: %w", entry.EntityType, err)
			}
		case models.AuditActionUpdate:
			m := newModel()
			if err := json.Unmarshal([]byte(entry.BeforeData), m); err != nil {
				return fmt.Errorf("decode previous %s: %w", entry.EntityType, err)
			}
			if err := tx.Save(m).Error; err != nil {
				return fmt.Errorf("restore %s: %w", entry.EntityType, err)
			}
		case models.AuditActionDelete:
			m := newModel()
			if err := json.Unmarshal([]byte(entry.BeforeData), m); err != nil {
				return fmt.Errorf("decode deleted %s: %w", entry.EntityType, err)
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("recreate %s: %w", entry.EntityType, err)
			}
		default:
			return ErrNotUndoable
		}

		now := time.Now()
		entry.IsUndone = true
		entry.UndoneBy = &actor.UserID
		entry.UndoneAt = &now
		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("mark audit log undone: %w", err)
		}

		undo := models.AuditLog{
			UserID:      actor.UserID,
			UserEmail:   actor.Email,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Action:      models.AuditActionUndo,
			Description: truncate(fmt.Sprintf("Undone: %s", entry.Description), 255),
			BeforeData:  entry.AfterData,
			AfterData:   entry.BeforeData,
		}
		if err := tx.Create(&undo).Error; err != nil {
			return fmt.Errorf("write undo log: %w", err)
		}
		return nil
	})
}

// jsonb columns need "null" rather than an empty string.
func toJSON(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
