package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Installer describes one unattended vendor installer: where to download
// the bootstrapper from and the fixed flag set it is invoked with.
type Installer struct {
	URL  string   `yaml:"url"`
	Args []string `yaml:"args"`
}

// Manifest is the repository set and download endpoints the setup tool
// provisions from. A built-in default covers the normal case; the
// --manifest flag swaps in a YAML file with the same shape, which is also
// how the end-to-end tests point the tool at local fixtures.
type Manifest struct {
	// Base URL templates, each with a single %s slot for the repository
	// name. The writable base is tried first by the permission probe; the
	// read-only base is the public fallback.
	WritableBase string `yaml:"writable_base"`
	ReadOnlyBase string `yaml:"read_only_base"`

	// The three fixed repository groups.
	Workspace  string   `yaml:"workspace"`
	APIRepos   []string `yaml:"api_repos"`
	LevelRepos []string `yaml:"level_repos"`

	// The packaged game build, unpacked into <install-dir>/Game.
	GameArchiveURL string `yaml:"game_archive_url"`

	// Vendor installers for the native toolchain path.
	BuildTools   Installer `yaml:"build_tools"`
	VisualStudio Installer `yaml:"visual_studio"`

	// Compatibility-layer runtime components (winetricks verbs) and the
	// compiler redistributables unpacked into the prefix's drive_c.
	WineComponents   []string `yaml:"wine_components"`
	RedistArchiveURL string   `yaml:"redist_archive_url"`
}

// DefaultManifest returns the built-in Duststorm SDK manifest.
func DefaultManifest() Manifest {
	return Manifest{
		WritableBase: "git@github.com:duststorm-game/%s.git",
		ReadOnlyBase: "https://github.com/duststorm-game/%s.git",
		Workspace:    "Workspace",
		APIRepos:     []string{"CoreAPI", "RenderAPI", "PhysicsAPI", "ScriptAPI"},
		LevelRepos:   []string{"LevelDunes", "LevelOutpost", "LevelArena"},

		GameArchiveURL: "https://files.duststorm-game.dev/releases/Duststorm-1.4.zip",

		BuildTools: Installer{
			URL: "https://aka.ms/vs/17/release/vs_buildtools.exe",
			Args: []string{
				"--quiet", "--wait", "--norestart", "--nocache",
				"--add", "Microsoft.VisualStudio.Workload.VCTools",
				"--includeRecommended",
			},
		},
		VisualStudio: Installer{
			URL: "https://aka.ms/vs/17/release/vs_community.exe",
			Args: []string{
				"--quiet", "--wait", "--norestart", "--nocache",
				"--add", "Microsoft.VisualStudio.Workload.NativeDesktop",
				"--includeRecommended",
			},
		},

		WineComponents:   []string{"vcrun2010", "corefonts"},
		RedistArchiveURL: "https://files.duststorm-game.dev/releases/vc-redist-pack.zip",
	}
}

// RepoURL renders a repository name against a base URL template.
func (m Manifest) RepoURL(base, repo string) string {
	return fmt.Sprintf(base, repo)
}

// LoadManifest reads a YAML manifest file. Fields absent from the file keep
// their built-in defaults, so a manifest may override just the endpoints it
// cares about.
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return m, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

func (m Manifest) validate() error {
	if m.WritableBase == "" || m.ReadOnlyBase == "" {
		return fmt.Errorf("both writable_base and read_only_base must be set")
	}
	if m.Workspace == "" {
		return fmt.Errorf("workspace repository must be set")
	}
	if m.GameArchiveURL == "" {
		return fmt.Errorf("game_archive_url must be set")
	}
	return nil
}
