package gcs

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/storage"
	iamcredentials "google.golang.org/api/iamcredentials/v1"
)

// urlSigner fills the identity/signature parts of V4 signed-URL options.
// Two implementations exist because the same build must run both where an
// exportable private key is on disk and in a managed runtime where signing
// has to be delegated to the IAM Credentials API.
type urlSigner interface {
	apply(opts *storage.SignedURLOptions)
}

// keySigner signs locally with the service-account private key.
type keySigner struct {
	email string
	pem   []byte
}

func (s *keySigner) apply(opts *storage.SignedURLOptions) {
	opts.GoogleAccessID = s.email
	opts.PrivateKey = s.pem
}

// iamSigner delegates each signature to the signBlob endpoint under the
// resolved service identity.
type iamSigner struct {
	email string
	svc   *iamcredentials.Service
}

func (s *iamSigner) apply(opts *storage.SignedURLOptions) {
	opts.GoogleAccessID = s.email
	opts.SignBytes = func(b []byte) ([]byte, error) {
		name := "projects/-/serviceAccounts/" + s.email
		resp, err := s.svc.Projects.ServiceAccounts.SignBlob(name, &iamcredentials.SignBlobRequest{
			Payload: base64.StdEncoding.EncodeToString(b),
		}).Do()
		if err != nil {
			return nil, fmt.Errorf("iam signBlob for %s: %w", s.email, err)
		}
		sig, err := base64.StdEncoding.DecodeString(resp.SignedBlob)
		if err != nil {
			return nil, fmt.Errorf("decode signBlob response: %w", err)
		}
		return sig, nil
	}
}

// resolveSigner picks the signing path. A usable private key wins; otherwise
// the identity is resolved (env override, credentials identity, metadata
// server, in that order) and signing is delegated.
func resolveSigner(ctx context.Context) (urlSigner, error) {
	km := credentialsKey(ctx)
	if km.ClientEmail != "" && km.PrivateKey != "" {
		return &keySigner{email: km.ClientEmail, pem: []byte(km.PrivateKey)}, nil
	}

	email := strings.TrimSpace(os.Getenv("STORAGE_SIGNER_EMAIL"))
	if email == "" {
		email = km.ClientEmail
	}
	if email == "" {
		resolved, err := metadata.EmailWithContext(ctx, "default")
		if err != nil {
			return nil, fmt.Errorf("resolve service identity: no override, no credentials identity, metadata lookup failed: %w", err)
		}
		email = resolved
	}

	svc, err := iamcredentials.NewService(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("init iamcredentials service: %w", err)
	}
	return &iamSigner{email: email, svc: svc}, nil
}
