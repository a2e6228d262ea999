// Package config resolves binary settings from flags, the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	ProfileEnv = "TOUCHPITCH_PROFILE"
	SeedEnv    = "TOUCHPITCH_SEED"
)

// LoadEnv reads .env files into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
		log.Printf("Loaded environment from %s", p)
	}
	return nil
}

// Profile returns the flag value, falling back to TOUCHPITCH_PROFILE
func Profile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(ProfileEnv)
}

// Seed returns the flag value, falling back to TOUCHPITCH_SEED when the flag is 0
func Seed(flagValue int64) (int64, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	v := os.Getenv(SeedEnv)
	if v == "" {
		return 0, nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", SeedEnv, v, err)
	}
	return seed, nil
}
