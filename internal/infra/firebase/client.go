// internal/infra/firebase/client.go
package firebaseinfra

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// NewAuthClient initializes the Firebase Auth client used for ID token
// verification. With an empty credentialsFile, ADC is used.
func NewAuthClient(ctx context.Context, projectID, credentialsFile string) (*firebaseauth.Client, error) {
	cfg := &firebase.Config{ProjectID: projectID}

	var (
		app *firebase.App
		err error
	)
	if credentialsFile != "" {
		app, err = firebase.NewApp(ctx, cfg, option.WithCredentialsFile(credentialsFile))
	} else {
		app, err = firebase.NewApp(ctx, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase app init failed: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client init failed: %w", err)
	}

	log.Printf("[firebase] auth client ready (project: %s)", projectID)
	return client, nil
}
