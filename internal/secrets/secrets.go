// Package secrets provides an optional Vault-backed credential source for
// the S3 and NATS backends' access keys, so operators don't have to put
// those credentials directly in the YAML config (SPEC_FULL.md §3).
package secrets

import (
	"fmt"

	"github.com/cloudfoundry-community/vaultkv"
)

// Source fetches named credentials from a Vault KV mount.
type Source struct {
	client *vaultkv.KV
}

// Config names the Vault connection; Token is expected to come from the
// environment rather than the YAML config file.
type Config struct {
	Address string
	Token   string
	Mount   string
}

func New(cfg Config) (*Source, error) {
	client := &vaultkv.Client{
		VaultURL:  cfg.Address,
		AuthToken: cfg.Token,
	}
	return &Source{client: client.NewKV()}, nil
}

// Credential is one secret value pair (e.g. access key / secret key) read
// from a single Vault path.
type Credential struct {
	AccessKey string
	SecretKey string
}

// Get reads a Credential from path, expecting keys "access_key" and
// "secret_key" in the stored secret.
func (s *Source) Get(path string) (Credential, error) {
	var out struct {
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	}
	_, err := s.client.Get(path, &out)
	if err != nil {
		return Credential{}, fmt.Errorf("secrets: reading %s: %w", path, err)
	}
	return Credential{AccessKey: out.AccessKey, SecretKey: out.SecretKey}, nil
}

// GetToken reads a single bearer token from path, expecting a "token" key —
// the NATS backend's auth credential, as opposed to S3's access/secret key
// pair.
func (s *Source) GetToken(path string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	_, err := s.client.Get(path, &out)
	if err != nil {
		return "", fmt.Errorf("secrets: reading %s: %w", path, err)
	}
	return out.Token, nil
}
