package clog

import (
	"os"
	"strconv"
)

func levelFromEnv() int {
	v, err := strconv.Atoi(os.Getenv("CHISEL_LOG_LEVEL"))
	if err != nil {
		return 0
	}
	return v
}
