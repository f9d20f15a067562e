package main

import (
	"errors"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNotWellFormed) {
			os.Stderr.WriteString("error: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}
