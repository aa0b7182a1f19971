package genre

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/listenupapp/moodshelf/internal/validation"
)

// fileSeed is the on-disk shape of one genre entry.
type fileSeed struct {
	Name     string   `koanf:"name" json:"name" validate:"required"`
	Moods    []string `koanf:"moods" json:"moods" validate:"required,min=1,dive,required"`
	Priority int      `koanf:"priority" json:"priority" validate:"min=0"`
}

type fileTables struct {
	DefaultMoods []string   `koanf:"default_moods" json:"default_moods" validate:"omitempty,dive,required"`
	Genres       []fileSeed `koanf:"genres" json:"genres" validate:"required,min=1,dive"`
}

// LoadTables reads a YAML genre table from path. An empty path returns the
// built-in tables. default_moods may be omitted to keep the built-in fallback.
//
//	default_moods: [lofi, ambient]
//	genres:
//	  - name: Fantasy
//	    moods: [epic fantasy, medieval ambient, cinematic]
//	    priority: 11
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load genre table %s: %w", path, err)
	}

	var raw fileTables
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("parse genre table %s: %w", path, err)
	}
	if err := validation.New().Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid genre table %s: %w", path, err)
	}

	defaults := raw.DefaultMoods
	if len(defaults) == 0 {
		defaults = DefaultMoods
	}

	seeds := make([]Seed, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		seeds = append(seeds, Seed{Name: g.Name, Moods: g.Moods, Priority: g.Priority})
	}

	t, err := NewTables(seeds, defaults)
	if err != nil {
		return nil, fmt.Errorf("invalid genre table %s: %w", path, err)
	}
	return t, nil
}
