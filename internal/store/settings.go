package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
)

const signingSecretKey = "session_signing_secret"

// signingSecretBytes is the amount of randomness in a generated secret.
const signingSecretBytes = 32

// Setting returns the value stored under key. found is false if the key has
// never been set.
func Setting(ctx context.Context, q DBTX, key string) (value string, found bool, err error) {
	err = q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, true, nil
}

// SigningSecret returns the persisted session signing secret, creating a
// random one the first time the database is used. Processes starting
// against the same database at once all end up with the first stored value.
func SigningSecret(ctx context.Context, q DBTX) (string, error) {
	raw := make([]byte, signingSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating signing secret: %w", err)
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	var secret string
	err := q.QueryRowContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = settings.value
		 RETURNING value`,
		signingSecretKey, base64.RawURLEncoding.EncodeToString(raw),
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("storing signing secret: %w", err)
	}
	return secret, nil
}
