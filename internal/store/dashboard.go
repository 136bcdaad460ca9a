package store

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

// layoutDoc is one durable layout record. Payload is the JSON value exactly
// as the layout codec wrote it.
type layoutDoc struct {
	Payload   string    `firestore:"payload"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// dashboardStore is the Firestore durable scope: one document per layout key
// under users/{uid}/dashboard_layout.
type dashboardStore struct {
	client *firestore.Client
}

func NewDashboardStore(client *firestore.Client) *dashboardStore {
	return &dashboardStore{client: client}
}

func (s *dashboardStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("dashboard_layout")
}

// Get returns nil, nil when the key was never written.
func (s *dashboardStore) Get(ctx context.Context, uid, key string) ([]byte, error) {
	doc, err := s.collection(uid).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get layout record", err)
	}
	var d layoutDoc
	if err := doc.DataTo(&d); err != nil {
		// A document we cannot map is treated like corrupt JSON: empty.
		logger.FromContext(ctx).Warn("unreadable layout document", "key", key, "error", err)
		return nil, nil
	}
	return []byte(d.Payload), nil
}

func (s *dashboardStore) Put(ctx context.Context, uid, key string, payload []byte) error {
	_, err := s.collection(uid).Doc(key).Set(ctx, layoutDoc{
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return errs.NewDatabaseError("write", "failed to write layout record", err)
	}
	return nil
}

// Clear deletes every layout record for uid and returns how many were removed.
func (s *dashboardStore) Clear(ctx context.Context, uid string) (int, error) {
	iter := s.collection(uid).DocumentRefs(ctx)
	removed := 0
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, errs.NewDatabaseError("read", "failed to list layout records", err)
		}
		if _, err := ref.Delete(ctx); err != nil {
			return removed, errs.NewDatabaseError("delete", "failed to delete layout record", err)
		}
		removed++
	}
	return removed, nil
}

// Owners lists every uid with at least one layout record.
func (s *dashboardStore) Owners(ctx context.Context) ([]string, error) {
	iter := s.client.CollectionGroup("dashboard_layout").Documents(ctx)
	defer iter.Stop()

	seen := make(map[string]struct{})
	var owners []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list layout owners", err)
		}
		uid := doc.Ref.Parent.Parent.ID
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		owners = append(owners, uid)
	}
	sort.Strings(owners)
	return owners, nil
}
