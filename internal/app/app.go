package app

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"ipregistry/internal/storage"
	"ipregistry/internal/support"
)

const defaultStoragePath = "data/registry.csv"

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	if strings.EqualFold(support.GetEnv("IPREGISTRY_DEBUG", ""), "true") {
		log.SetLevel(log.DebugLevel)
	}

	storageFlag := flag.String("storage", "", "Path to the registry CSV file")
	flag.Parse()

	path := resolveStoragePath(*storageFlag)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("app: create storage directory: %w", err)
		}
	}

	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	log.Info("registry loaded", "path", store.Path(), "entries", store.Len())

	return runCommands(store, os.Stdin, os.Stdout)
}

// resolveStoragePath prefers the flag, then the environment, then the
// built-in default.
func resolveStoragePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return support.GetEnv("IPREGISTRY_STORAGE", defaultStoragePath)
}
