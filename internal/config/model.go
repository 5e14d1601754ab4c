// internal/config/model.go
//
// Typed configuration model for konf.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// internal/config/loader.go builds from three overlay layers:
//
//   - optional `.env`                       - dotenv values,
//   - `conf/global.yaml`                    - primary static file,
//   - `KONF_`-prefixed environment overrides - highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client before unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// This is the service bootstrap config: how to listen, which storage mode
// to run in, and where to find documents. It is distinct from the
// document Value trees internal/dag renders, which internal/loader
// parses.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"` — koanf ignores yaml tags
//     unless configured otherwise.
//   - The Paths block is filled at runtime; YAML must not try to set it.
package config

// StorageMode selects which FileProvider backs the DAG.
type StorageMode string

const (
	StorageLocal StorageMode = "local"
	StorageGit   StorageMode = "git"
)

// Server holds the host binary's listen tunables.
type Server struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

// Local holds local-filesystem mode settings.
type Local struct {
	Root string `koanf:"root"`
}

// Git holds git-backed mode settings: the remote to clone, the branch the
// clone's HEAD points at (the known-commits set covers every fetched ref,
// not only this branch), and the credential reference resolved through
// Vault before the config is unmarshalled.
type Git struct {
	RepoURL  string `koanf:"repo_url"`
	Branch   string `koanf:"branch"`
	AuthToken string `koanf:"auth_token"`
}

// Storage picks and configures the active FileProvider.
type Storage struct {
	Mode StorageMode `koanf:"mode" validate:"required,oneof=local git"`
	Local Local      `koanf:"local"`
	Git   Git        `koanf:"git"`
}

// Logging controls internal/logger's output.
type Logging struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level"`
}

// Paths is resolved at runtime, never set in YAML or env. The loader
// discovers Root (repo root or KONF_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the process lifetime.
type Config struct {
	Server  Server  `koanf:"server"`
	Storage Storage `koanf:"storage"`
	Logging Logging `koanf:"logging"`
	Paths   Paths   `koanf:"-"`
}
