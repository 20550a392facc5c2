// internal/infra/secrets/provider.go
package secrets

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errNotConfigured = errors.New("secrets: provider not configured")

// Provider resolves secret values from Google Secret Manager.
// API キーを環境変数に直接置かず Secret Manager で解決するための薄いラッパー。
type Provider struct {
	sm        *secretmanager.Client
	projectID string
}

// NewProvider opens a Secret Manager client bound to projectID.
func NewProvider(ctx context.Context, projectID string) (*Provider, error) {
	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return nil, errors.New("secrets: projectID is empty")
	}
	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, errors.New("secrets: client init failed: " + err.Error())
	}
	return &Provider{sm: sm, projectID: prj}, nil
}

// Get fetches the latest version of the named secret and returns its payload
// with surrounding whitespace trimmed.
func (p *Provider) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secrets: secretID is empty")
	}

	name := "projects/" + p.projectID + "/secrets/" + sid + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + name + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	if p == nil || p.sm == nil {
		return nil
	}
	return p.sm.Close()
}
