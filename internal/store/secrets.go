package store

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dashboard-backend/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{secret}/versions/{version}

type secretsStore struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretsStore(client *secretmanager.Client, projectID string) *secretsStore {
	return &secretsStore{client: client, projectID: projectID}
}

// versionName accepts a bare secret id, a secret resource name or a full
// version resource name. Versionless names resolve to the latest version.
func (s *secretsStore) versionName(secret string) string {
	if !strings.HasPrefix(secret, "projects/") {
		secret = fmt.Sprintf("projects/%s/secrets/%s", s.projectID, secret)
	}
	if !strings.Contains(secret, "/versions/") {
		secret += "/versions/latest"
	}
	return secret
}

func (s *secretsStore) Access(ctx context.Context, secret string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.versionName(secret),
	})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError("secret not found: " + secret)
	}
	if err != nil {
		return "", errs.NewDatabaseError("read", "failed to access secret", err)
	}
	return string(res.Payload.Data), nil
}
