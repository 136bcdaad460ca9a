package services

import (
	"context"
	"encoding/json"
	"maps"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

// Record keys. They match the keys the browser client used for its own
// storage so exported layouts stay interchangeable.
const (
	KeyUserCards   = "dashboard-stat-cards"
	KeyGeometry    = "dashboard-card-sizes"
	KeyDepartments = "dashboard-session-cards"
)

// DurableLayout is what the durable scope holds for one user.
type DurableLayout struct {
	Cards    []models.AnalyticsCard
	Geometry map[string]models.CardGeometry
	// LegacyDropped counts stored cards removed by the legacy cleanup rule.
	LegacyDropped int
}

// LayoutStore persists the user-authored layer. The durable scope survives
// restarts; the session scope lives as long as one browser session.
type LayoutStore interface {
	LoadDurable(ctx context.Context, uid string) (DurableLayout, error)
	SaveCards(ctx context.Context, uid string, cards []models.AnalyticsCard) error
	SaveGeometry(ctx context.Context, uid string, geometry map[string]models.CardGeometry) error
	LoadSession(ctx context.Context, uid, sessionID string) ([]string, error)
	SaveSession(ctx context.Context, uid, sessionID string, departments []string) error
}

type durableKV interface {
	Get(ctx context.Context, owner, key string) ([]byte, error)
	Put(ctx context.Context, owner, key string, payload []byte) error
}

type sessionKV interface {
	Get(ctx context.Context, owner, sessionID, key string) ([]byte, error)
	Put(ctx context.Context, owner, sessionID, key string, payload []byte) error
}

type cardsRecord struct {
	Cards []models.AnalyticsCard `json:"cards"`
}

type geometryRecord struct {
	Geometry map[string]models.CardGeometry `json:"geometry"`
}

// layoutStore is the JSON codec over two raw key/value backends.
type layoutStore struct {
	durable durableKV
	session sessionKV
}

func NewLayoutStore(durable durableKV, session sessionKV) *layoutStore {
	return &layoutStore{durable: durable, session: session}
}

// LoadDurable never fails on bad data: a missing or unparseable record reads
// as empty. Only backend errors are returned.
func (s *layoutStore) LoadDurable(ctx context.Context, uid string) (DurableLayout, error) {
	log := logger.FromContext(ctx)
	out := DurableLayout{Geometry: make(map[string]models.CardGeometry)}

	raw, err := s.durable.Get(ctx, uid, KeyUserCards)
	if err != nil {
		return out, err
	}
	var cards cardsRecord
	if raw != nil {
		if err := json.Unmarshal(raw, &cards); err != nil {
			log.Warn("discarding unreadable card record", "key", KeyUserCards, "error", err)
			cards = cardsRecord{}
		}
	}
	seen := make(map[string]struct{}, len(cards.Cards))
	for _, c := range cards.Cards {
		if _, dup := seen[c.ID]; dup || c.ID == "" {
			continue
		}
		seen[c.ID] = struct{}{}
		if c.IsLegacyPerformance() {
			out.LegacyDropped++
			continue
		}
		out.Cards = append(out.Cards, c)
	}

	raw, err = s.durable.Get(ctx, uid, KeyGeometry)
	if err != nil {
		return out, err
	}
	if raw != nil {
		var geo geometryRecord
		if err := json.Unmarshal(raw, &geo); err != nil {
			log.Warn("discarding unreadable geometry record", "key", KeyGeometry, "error", err)
		} else {
			maps.Copy(out.Geometry, geo.Geometry)
		}
	}

	if out.LegacyDropped > 0 {
		log.Debug("dropped legacy performance cards", "count", out.LegacyDropped)
	}
	return out, nil
}

func (s *layoutStore) SaveCards(ctx context.Context, uid string, cards []models.AnalyticsCard) error {
	if cards == nil {
		cards = []models.AnalyticsCard{}
	}
	b, err := json.Marshal(cardsRecord{Cards: cards})
	if err != nil {
		return err
	}
	return s.durable.Put(ctx, uid, KeyUserCards, b)
}

func (s *layoutStore) SaveGeometry(ctx context.Context, uid string, geometry map[string]models.CardGeometry) error {
	if geometry == nil {
		geometry = map[string]models.CardGeometry{}
	}
	b, err := json.Marshal(geometryRecord{Geometry: geometry})
	if err != nil {
		return err
	}
	return s.durable.Put(ctx, uid, KeyGeometry, b)
}

func (s *layoutStore) LoadSession(ctx context.Context, uid, sessionID string) ([]string, error) {
	raw, err := s.session.Get(ctx, uid, sessionID, KeyDepartments)
	if err != nil || raw == nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		logger.FromContext(ctx).Warn("discarding unreadable department record", "key", KeyDepartments, "error", err)
		return nil, nil
	}
	return names, nil
}

func (s *layoutStore) SaveSession(ctx context.Context, uid, sessionID string, departments []string) error {
	if departments == nil {
		departments = []string{}
	}
	b, err := json.Marshal(departments)
	if err != nil {
		return err
	}
	return s.session.Put(ctx, uid, sessionID, KeyDepartments, b)
}
