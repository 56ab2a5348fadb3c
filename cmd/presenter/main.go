package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/marketgame/tui"
)

func main() {
	server := flag.String("server", "http://localhost:5000", "game server base URL")
	flag.Parse()

	model := tui.NewModel(*server)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "presenter: %v\n", err)
		os.Exit(1)
	}
}
