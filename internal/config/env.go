// env.go loads a .env file from the working directory into the process
// environment. Variables already set in the environment win over the file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// EnvFile is the dotenv file read by LoadEnv.
const EnvFile = ".env"

var envOnce sync.Once

// LoadEnv reads EnvFile once per process. A missing file is ignored; a
// malformed one is reported on stderr and otherwise ignored.
func LoadEnv() {
	envOnce.Do(func() {
		if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: reading %s: %v\n", EnvFile, err)
		}
	})
}
