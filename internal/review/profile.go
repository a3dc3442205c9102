package review

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ProfileName is the conventional per-project review profile file.
const ProfileName = ".codexreview.toml"

// Profile is the on-disk review profile document.
type Profile struct {
	Review ReviewProfile `toml:"review"`
}

// ReviewProfile tunes the review prompt for a project.
type ReviewProfile struct {
	// Focus narrows the rubric to the named dimensions. Empty keeps the
	// full rubric.
	Focus []string `toml:"focus"`
	// Instructions are always appended to the prompt.
	Instructions string `toml:"instructions"`
	// Model is the default model override for this project.
	Model string `toml:"model"`
}

// LoadProfile reads the review profile from dir. A missing file yields a
// zero-value profile and no error, so projects without one need no setup.
func LoadProfile(dir string) (*Profile, error) {
	data, err := os.ReadFile(filepath.Join(dir, ProfileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ProfileName, err)
	}

	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ProfileName, err)
	}
	return &p, nil
}
