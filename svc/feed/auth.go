package feed

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ContentScope is the OAuth2 scope of the Content API for Shopping.
const ContentScope = "https://www.googleapis.com/auth/content"

// NewGoogleHTTPClient returns an HTTP client that authorises requests with a
// service account key read from credentialsFile, or with Application Default
// Credentials when the path is empty.
func NewGoogleHTTPClient(ctx context.Context, credentialsFile string, timeout time.Duration) (*http.Client, error) {
	var (
		creds *google.Credentials
		err   error
	)
	if credentialsFile != "" {
		data, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, errors.Join(ErrInvalidConfig, readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, ContentScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, ContentScope)
	}
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = timeout
	return client, nil
}
