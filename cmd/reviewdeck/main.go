package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	tea "github.com/charmbracelet/bubbletea"

	"reviewdeck/internal/client"
	"reviewdeck/internal/queue"
	"reviewdeck/internal/tui"
)

func main() {
	var cfg client.Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctrl := queue.New(client.New(cfg.BaseAddr))

	p := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
