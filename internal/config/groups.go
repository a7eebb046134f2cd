package config

import (
	"encoding/json"
	"os"
)

// GroupSeed is one entry of the default groups file.  The file is a JSON
// array of objects with a single "name" field and is applied via upsert at
// user-service startup, so re-running the service does not duplicate groups.
type GroupSeed struct {
	Name string `json:"name"`
}

// LoadDefaultGroups reads and parses the seed groups file at path.
func LoadDefaultGroups(path string) ([]GroupSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var groups []GroupSeed
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
