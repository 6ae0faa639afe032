package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slabwatch/slabwatch/internal/apiclient"
	"github.com/slabwatch/slabwatch/internal/session"
	"github.com/slabwatch/slabwatch/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var serverURL string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/slabwatch/config.yml)")
	flag.StringVar(&serverURL, "server", "", "override slabwatch server URL")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Slabwatch CLI - Card Tracker Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	sessions, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		return fmt.Errorf("cannot open session store: %w", err)
	}

	skin := loadSkin(cfg.Skin)

	client := apiclient.NewClient(cfg.ServerURL, sessions)

	loginPage := tui.NewLoginPage(client, sessions, skin)
	browsePage := tui.NewBrowsePage(client, sessions, skin)

	// Resume straight into the card list when a session already exists;
	// a stale token bounces back to login on the first request.
	token, _ := sessions.Token()
	var app *tui.App
	if token != "" {
		app = tui.NewApp(browsePage, loginPage)
	} else {
		app = tui.NewApp(loginPage, browsePage)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// loadSkin resolves a named skin from the user's skin directory, falling
// back to the built-in palette on any failure.
func loadSkin(name string) tui.Skin {
	if name == "" || name == defaultSkinName {
		return tui.DefaultSkin()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return tui.DefaultSkin()
	}

	path := filepath.Join(home, ".config", "slabwatch", "skins", name+".yaml")
	skin, err := tui.LoadSkin(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load skin %q: %v (using default)\n", name, err)
		return tui.DefaultSkin()
	}
	return skin
}
