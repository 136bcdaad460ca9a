package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

// dragSession is one pointer-down to pointer-up resize interaction.
type dragSession struct {
	cardID       string
	startPointer dto.Point
	startSize    models.CardGeometry
}

// BeginResize opens a drag session on a card. A zero start size falls back to
// the stored geometry. The start size is clamped like any other size.
// Unknown cards return ok=false.
func (s *dashboardService) BeginResize(ctx context.Context, uid, sessionID, cardID string, req dto.BeginResizeRequest) (dto.ResizeSessionResponse, bool, error) {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return dto.ResizeSessionResponse{}, false, err
	}
	defer r.mu.Unlock()

	if r.indexOf(cardID) < 0 {
		return dto.ResizeSessionResponse{}, false, nil
	}
	start := models.CardGeometry{Width: req.StartWidth, Height: req.StartHeight}
	if start.Width == 0 || start.Height == 0 {
		stored, ok := r.geometry[cardID]
		if !ok {
			stored = models.CardGeometry{Width: models.MinCardWidth, Height: models.MinCardHeight}
		}
		if start.Width == 0 {
			start.Width = stored.Width
		}
		if start.Height == 0 {
			start.Height = stored.Height
		}
	}
	start = models.ClampGeometry(start.Width, start.Height)

	id := uuid.NewString()
	r.drags[id] = &dragSession{cardID: cardID, startPointer: req.Pointer, startSize: start}
	logger.FromContext(ctx).Debug("resize started", "card_id", cardID, "resize_id", id)
	return dto.ResizeSessionResponse{SessionID: id, CardID: cardID, Geometry: start}, true, nil
}

// MoveResize applies one pointer sample. The new size is the start size plus
// the pointer offset, clamped, and it is persisted on every sample.
func (s *dashboardService) MoveResize(ctx context.Context, uid, sessionID, resizeID string, req dto.MoveResizeRequest) (dto.ResizeSessionResponse, bool, error) {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return dto.ResizeSessionResponse{}, false, err
	}
	defer r.mu.Unlock()

	d, ok := r.drags[resizeID]
	if !ok {
		return dto.ResizeSessionResponse{}, false, nil
	}
	width := d.startSize.Width + offset(req.Pointer.X-d.startPointer.X, models.MaxCardWidth)
	height := d.startSize.Height + offset(req.Pointer.Y-d.startPointer.Y, models.MaxCardHeight)
	g, ok := r.setGeometry(d.cardID, width, height)
	if !ok {
		delete(r.drags, resizeID)
		return dto.ResizeSessionResponse{}, false, nil
	}
	res := dto.ResizeSessionResponse{SessionID: resizeID, CardID: d.cardID, Geometry: g}
	return res, true, s.saveGeometry(ctx, r)
}

// offset rounds a pointer delta and bounds it to +-limit. Any delta past the
// limit clamps to the same size anyway.
func offset(delta float64, limit int) int {
	l := float64(limit)
	return int(math.Max(-l, math.Min(l, math.Round(delta))))
}

// EndResize closes a drag session. The last sampled size stays.
func (s *dashboardService) EndResize(ctx context.Context, uid, sessionID, resizeID string) error {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	if _, ok := r.drags[resizeID]; !ok {
		return nil
	}
	delete(r.drags, resizeID)
	logger.FromContext(ctx).Debug("resize ended", "resize_id", resizeID)
	return nil
}
