// Package config handles plyindex configuration loading and management.
package config

// Config holds all plyindex settings.
type Config struct {
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// SceneConfig holds the mesh directory and where its index is kept.
type SceneConfig struct {
	MeshDir    string `yaml:"mesh_dir"`
	IndexPath  string `yaml:"index_path"`
	SQLitePath string `yaml:"sqlite_path"` // empty disables the SQLite mirror
	Rebuild    bool   `yaml:"rebuild"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			MeshDir:   "meshes",
			IndexPath: "scene_index.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
