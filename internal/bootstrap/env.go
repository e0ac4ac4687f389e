package bootstrap

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Loadenv loads variables from the given .env files, ".env" by default.
// Missing files are skipped and variables already set in the process win.
func Loadenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var found []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		found = append(found, f)
	}
	if len(found) == 0 {
		return nil
	}
	return godotenv.Load(found...)
}
