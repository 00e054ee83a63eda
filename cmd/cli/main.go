package main

import (
	"fmt"
	"os"

	"github.com/okarhu/locboard/cmd/cli/auth"
	"github.com/okarhu/locboard/cmd/cli/locations"
	"github.com/okarhu/locboard/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	locations.InitLocations(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
