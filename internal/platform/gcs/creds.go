package gcs

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// ClientOptionsFromEnv supports both inline credentials JSON and a key file
// path, so the same build runs on managed infrastructure and on a developer
// machine.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// keyMaterial is the subset of a service-account key we need for local URL
// signing. Keyless identities (managed runtime) leave PrivateKey empty.
type keyMaterial struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// credentialsKey extracts identity/key material from the ambient
// credentials: the inline JSON env var first, then whatever the default
// credential chain resolves (key file, workload identity, etc.).
func credentialsKey(ctx context.Context) keyMaterial {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")); strings.HasPrefix(raw, "{") {
		var km keyMaterial
		if err := json.Unmarshal([]byte(raw), &km); err == nil {
			return km
		}
	}
	creds, err := google.FindDefaultCredentials(ctx)
	if err != nil || len(creds.JSON) == 0 {
		return keyMaterial{}
	}
	var km keyMaterial
	if err := json.Unmarshal(creds.JSON, &km); err != nil {
		return keyMaterial{}
	}
	return km
}
