package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"gopkg.in/yaml.v3"
)

// seedFile represents the structure of the seed file.
type seedFile struct {
	Heroes []domain.Hero `json:"heroes" yaml:"heroes"`
}

// LoadSeed reads the initial heroes from a YAML/JSON file. An empty path yields no heroes.
// Every hero needs a name and a unique positive id.
func LoadSeed(path string) ([]domain.Hero, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	seed, err := parseSeed(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(seed.Heroes))
	for i, h := range seed.Heroes {
		if strings.TrimSpace(h.Name) == "" {
			return nil, fmt.Errorf("heroes[%d]: name is required", i)
		}
		if h.ID <= 0 {
			return nil, fmt.Errorf("heroes[%d]: id must be positive, got %d", i, h.ID)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("heroes[%d]: duplicate id %d", i, h.ID)
		}
		seen[h.ID] = true
	}
	return seed.Heroes, nil
}

// parseSeed attempts to decode the seed file content.
func parseSeed(data []byte, ext string) (seedFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
		{ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var seed seedFile
		if err := d.fn(data, &seed); err == nil {
			return seed, nil
		}
	}

	return seedFile{}, errors.New("seed file format not recognized (expected YAML or JSON)")
}
