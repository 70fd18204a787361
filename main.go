package main

import (
	"os"

	"github.com/Taichi-iskw/yt-tutor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
