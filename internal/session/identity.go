package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Identity is the persistent per-player identity: a stable opaque token the
// backend keys rate limits and moderation on, plus the player's preferred
// 3-letter nickname.
type Identity struct {
	Token    string `json:"token"` // UUIDv4
	Nickname string `json:"nickname"`
}

const (
	identityFile = "identity.json"
	// The token is redundantly cached so it survives partial data loss;
	// losing it would orphan the player's leaderboard entries.
	identityBackupFile = "identity.backup.json"
)

// LoadIdentity returns the identity stored under dir, repairing a damaged
// copy from its mirror, or creates and persists a fresh one.
func LoadIdentity(dir string) (Identity, error) {
	primary := filepath.Join(dir, identityFile)
	backup := filepath.Join(dir, identityBackupFile)

	if id, ok := readIdentity(primary); ok {
		// Re-mirror in case the backup is the damaged copy
		writeIdentity(backup, id)
		return id, nil
	}
	if id, ok := readIdentity(backup); ok {
		writeIdentity(primary, id)
		return id, nil
	}

	id := Identity{Token: uuid.NewString(), Nickname: "AAA"}
	if err := SaveIdentity(dir, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// SaveIdentity persists the identity to both the primary and backup files.
func SaveIdentity(dir string, id Identity) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: cannot create identity directory: %w", err)
	}
	if err := writeIdentity(filepath.Join(dir, identityFile), id); err != nil {
		return err
	}
	return writeIdentity(filepath.Join(dir, identityBackupFile), id)
}

func readIdentity(path string) (Identity, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return Identity{}, false
	}
	if !ValidToken(id.Token) {
		return Identity{}, false
	}
	return id, true
}

func writeIdentity(path string, id Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("session: cannot encode identity: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("session: cannot write identity: %w", err)
	}
	return nil
}

// ValidToken reports whether the token is a well-formed UUIDv4, the format
// the backend requires.
func ValidToken(token string) bool {
	u, err := uuid.Parse(token)
	if err != nil {
		return false
	}
	return u.Version() == 4
}
