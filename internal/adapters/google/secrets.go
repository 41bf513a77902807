package google

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// SecretStore implements secondary.SecretStore against Google Secret
// Manager. The secret payload is the JSON written by the token refresh job;
// only access_token and the API base URL matter here.
type SecretStore struct {
	client     *secretmanager.Client
	apiBaseURL string
}

// secretPayload is the slice of the secret JSON the collector reads. The
// refresh-workflow fields (client id/secret, refresh token) are ignored.
type secretPayload struct {
	AccessToken string `json:"access_token"`
}

// NewSecretStore creates a Secret Manager client. apiBaseURL is the fixed
// order API root paired with the token.
func NewSecretStore(ctx context.Context, apiBaseURL string) (*SecretStore, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}
	return &SecretStore{client: client, apiBaseURL: apiBaseURL}, nil
}

// Get fetches and parses the secret version. Failure here is fatal at
// startup.
func (s *SecretStore) Get(ctx context.Context, secretName string) (*secondary.Credentials, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret %s: %w", secretName, err)
	}

	var payload secretPayload
	if err := json.Unmarshal(resp.GetPayload().GetData(), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse secret %s: %w", secretName, err)
	}

	token := strings.TrimSpace(payload.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("secret %s carries no access_token", secretName)
	}

	return &secondary.Credentials{
		AccessToken: token,
		APIBaseURL:  s.apiBaseURL,
	}, nil
}

// Close releases the underlying client.
func (s *SecretStore) Close() error {
	return s.client.Close()
}

// Ensure SecretStore implements the interface.
var _ secondary.SecretStore = (*SecretStore)(nil)
