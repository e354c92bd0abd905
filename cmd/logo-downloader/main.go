package main

import (
	"go-logo-downloader/cmd/logo-downloader/cmd"
)

func main() {
	// Execute the root command (defined in cmd/root.go)
	cmd.Execute()
}
