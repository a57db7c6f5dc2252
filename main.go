package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"skare/cmd"
	"skare/internal/db"
	"skare/internal/debug"
	"skare/internal/model"
	"skare/internal/ui"
	"skare/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	config, err := cmd.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config.ShowVersion {
		fmt.Println("skare", version)
		return
	}

	// Open database
	database, err := db.Open(config.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if config.Seed != "" {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		stats, err := db.Seed(database, config.Seed, rng, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "ℹ  Seeded %d units, %d regular participants, %d individuals, %d organizers\n",
			stats.Units, stats.Regular, stats.Individuals, stats.Organizers)
	}

	// Create and run Bubble Tea app
	p := tea.NewProgram(ui.New(database, ui.Options{
		Preset:      config.DefaultPreset,
		Locale:      config.Locale,
		LoadingText: config.LoadingText,
		Deadline:    config.Deadline,
	}), tea.WithAltScreen())

	// Reload the lists when another process writes the database
	w, err := watch.New(config.DBPath,
		watch.WithOnChange(func() { p.Send(model.DatabaseChangedMsg{}) }),
		watch.WithOnError(func(err error) { debug.Log("watch error: %v", err) }),
	)
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		debug.Log("database watcher disabled: %v", err)
	} else {
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
