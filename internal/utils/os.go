package utils

import (
	"os"
	"path/filepath"
)

func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return "sweepd"
	}

	return filepath.Base(executable)
}
