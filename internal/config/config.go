package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appName       = "FrxAI"
	appDirName    = "frxai"
	defaultDBName = "frxai.db"

	envDataDir = "FRXAI_DATA_DIR"
	envDBPath  = "FRXAI_DB_PATH"
)

// UserConfig is the per-user file in the app config dir that pins where the
// settings database lives.
type UserConfig struct {
	DBName  string `json:"db_name"`
	DataDir string `json:"data_dir"`
}

var runtimeDataDir string

func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// SetRuntimeDataDir overrides every other data dir source for this process.
func SetRuntimeDataDir(dir string) {
	runtimeDataDir = strings.TrimSpace(dir)
}

// AppConfigDir is the OS-specific directory for frxai configuration.
func AppConfigDir() (string, error) {
	if IsMacOS() {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appName), nil
	}
	if IsWindows() {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, appName), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
	return filepath.Join(configDir, appDirName), nil
}

func userConfigPath() (string, error) {
	dir, err := AppConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "user.json"), nil
}

// LoadUserConfig returns the stored user config, or defaults when it is
// missing or unreadable.
func LoadUserConfig() UserConfig {
	cfg := UserConfig{DBName: defaultDBName}
	path, err := userConfigPath()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return UserConfig{DBName: defaultDBName}
	}
	if strings.TrimSpace(cfg.DBName) == "" {
		cfg.DBName = defaultDBName
	}
	return cfg
}

// SaveUserConfig writes cfg into the app config dir.
func SaveUserConfig(cfg UserConfig) error {
	path, err := userConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetDataDir resolves and creates the data dir: runtime override, then
// FRXAI_DATA_DIR, then the user config, then the app config dir.
func GetDataDir() (string, error) {
	dir := runtimeDataDir
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(envDataDir))
	}
	if dir == "" {
		dir = strings.TrimSpace(LoadUserConfig().DataDir)
	}
	if dir == "" {
		appDir, err := AppConfigDir()
		if err != nil {
			return "", err
		}
		dir = appDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDBPath resolves the settings database: FRXAI_DB_PATH, else the data dir
// joined with the configured name.
func GetDBPath() (string, error) {
	if envPath := strings.TrimSpace(os.Getenv(envDBPath)); envPath != "" {
		return envPath, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, LoadUserConfig().DBName), nil
}

// GetLogDir is the logs folder inside the data dir.
func GetLogDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "logs"), nil
}
