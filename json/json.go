// Package json persists conversation transcripts as versioned JSON files.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/serline/serline"
)

// envelope is the v1 wire format for a persisted transcript.
type envelope struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Turns     []turnDTO `json:"turns"`
}

type turnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s serline.Session) ([]byte, error) {
	env := envelope{
		Version:   1,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Turns:     make([]turnDTO, len(s.Turns)),
	}
	for i, turn := range s.Turns {
		env.Turns[i] = turnDTO{Role: string(turn.Role), Content: turn.Content}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (serline.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return serline.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return serline.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	turns := make([]serline.Turn, len(env.Turns))
	for i, dto := range env.Turns {
		switch dto.Role {
		case string(serline.RoleUser), string(serline.RoleModel):
			turns[i] = serline.Turn{Role: serline.Role(dto.Role), Content: dto.Content}
		default:
			return serline.Session{}, fmt.Errorf("turn %d: unknown role %q", i, dto.Role)
		}
	}
	return serline.Session{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Turns:     turns,
	}, nil
}

// Save writes a Session to a JSON file, creating parent directories as
// needed. The write goes through a temp file and rename so a crash never
// leaves a half-written transcript.
func Save(path string, s serline.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (serline.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return serline.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}
