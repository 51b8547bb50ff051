package snapio

import (
	"os"
	"strconv"
)

// fallbackTermSizeFromEnv reads $COLUMNS and $LINES; unset or invalid values are 0.
func fallbackTermSizeFromEnv() (int, int) {
	return envInt("COLUMNS"), envInt("LINES")
}

func envInt(name string) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
