package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"skare/internal/db"
	"skare/internal/submit"
)

// Config holds CLI configuration.
type Config struct {
	DBPath        string
	ConfigPath    string
	Seed          db.SeedSize
	ShowVersion   bool
	DefaultPreset string
	Locale        language.Tag
	LoadingText   string
	Deadline      submit.Deadline
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags() (*Config, error) {
	// .env.local is loaded first so it wins: godotenv never overrides a set
	// variable.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	return Parse(os.Args[1:], os.Stderr, shouldRunOnboarding)
}

// Parse builds the configuration from args, the environment and the config
// file. firstRun decides whether the interactive setup may run when the
// config file has not completed it yet.
func Parse(args []string, output io.Writer, firstRun func(FileConfig) bool) (*Config, error) {
	config := &Config{}
	var seed string

	fs := flag.NewFlagSet("skare", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&config.DBPath, "db", "", "Path to SQLite database file (default: $SKARE_DB or ~/.skare/skare.db)")
	fs.StringVar(&config.ConfigPath, "config", "", "Path to config file (default: config.yaml next to the database)")
	fs.StringVar(&seed, "seed", "", "Fill the database with test data: small, medium or large")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if config.ShowVersion {
		return config, nil
	}

	if seed != "" {
		size, err := db.ParseSeedSize(seed)
		if err != nil {
			return nil, err
		}
		config.Seed = size
	}

	if config.DBPath == "" {
		config.DBPath = os.Getenv("SKARE_DB")
	}

	// Set default DB path if not specified
	var configDir string
	if config.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		configDir = filepath.Join(home, ".skare")
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		config.DBPath = filepath.Join(configDir, "skare.db")
	} else {
		configDir = filepath.Dir(config.DBPath)
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if config.ConfigPath == "" {
		config.ConfigPath = filepath.Join(configDir, "config.yaml")
	}

	fileConfig, err := LoadFileConfig(config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if firstRun != nil && firstRun(fileConfig) {
		result, err := runOnboarding(config.ConfigPath, fileConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to run setup: %w", err)
		}
		fileConfig = result.config
		if config.Seed == "" {
			config.Seed = result.seed
		}
	}

	locale, err := fileConfig.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ConfigPath, err)
	}
	config.DefaultPreset = fileConfig.DefaultPreset
	config.Locale = locale
	config.LoadingText = fileConfig.LoadingText
	deadline, err := fileConfig.Deadline()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ConfigPath, err)
	}
	config.Deadline = deadline

	return config, nil
}
