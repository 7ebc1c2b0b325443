package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed roster.json
var defaultRoster []byte

// Creator maps a stable display name to a platform-specific identifier: a
// channel id on YouTube, a login name on Twitch.
type Creator struct {
	Name string
	ID   string
}

// Roster is the ordered list of monitored creators per platform. Slice order
// is probe order.
type Roster struct {
	YouTube []Creator
	Twitch  []Creator
}

type rosterFile struct {
	YouTube []struct {
		Name      string `json:"name"`
		ChannelID string `json:"channel_id"`
	} `json:"youtube"`
	Twitch []string `json:"twitch"`
}

// LoadRoster reads the roster from path, or the built-in roster when path is
// empty.
func LoadRoster(path string) (Roster, error) {
	data := defaultRoster
	source := "built-in"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Roster{}, &ConfigError{Var: "ROSTER_FILE", Err: err}
		}
		data, source = b, path
	}
	r, err := ParseRoster(data)
	if err != nil {
		return Roster{}, &ConfigError{Var: "ROSTER_FILE", Err: fmt.Errorf("%s roster: %w", source, err)}
	}
	return r, nil
}

// ParseRoster decodes and validates a JSON roster document.
func ParseRoster(data []byte) (Roster, error) {
	var rf rosterFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return Roster{}, fmt.Errorf("decode: %w", err)
	}

	var r Roster
	seen := make(map[string]bool)
	for i, yt := range rf.YouTube {
		name, id := strings.TrimSpace(yt.Name), strings.TrimSpace(yt.ChannelID)
		if name == "" || id == "" {
			return Roster{}, fmt.Errorf("youtube entry %d: name and channel_id are required", i)
		}
		if seen[name] {
			return Roster{}, fmt.Errorf("youtube entry %d: duplicate name %q", i, name)
		}
		seen[name] = true
		r.YouTube = append(r.YouTube, Creator{Name: name, ID: id})
	}

	seen = make(map[string]bool)
	for i, login := range rf.Twitch {
		login = strings.TrimSpace(login)
		if login == "" {
			return Roster{}, fmt.Errorf("twitch entry %d: empty login", i)
		}
		key := strings.ToLower(login)
		if seen[key] {
			return Roster{}, fmt.Errorf("twitch entry %d: duplicate login %q", i, login)
		}
		seen[key] = true
		r.Twitch = append(r.Twitch, Creator{Name: login, ID: login})
	}

	if len(r.YouTube) == 0 && len(r.Twitch) == 0 {
		return Roster{}, errors.New("no creators configured")
	}
	return r, nil
}

// IDs returns the platform identifiers of creators in order.
func IDs(creators []Creator) []string {
	out := make([]string, len(creators))
	for i, c := range creators {
		out[i] = c.ID
	}
	return out
}
