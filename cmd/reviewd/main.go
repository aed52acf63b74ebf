package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"reviewdeck/internal/app"
)

var appVersion = "v0.0.0"

func main() {
	if err := app.New(appVersion).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
