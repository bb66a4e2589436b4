package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/reelkithq/reelkit/internal/config"
	"github.com/reelkithq/reelkit/internal/logging"
	"github.com/reelkithq/reelkit/internal/notify"
	"github.com/reelkithq/reelkit/internal/tui"
	"github.com/reelkithq/reelkit/pkg/client"
	"github.com/reelkithq/reelkit/pkg/poller"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// tokenFilePath returns ~/.reelkit/token.
func tokenFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token"), nil
}

// readToken returns the auth token using precedence: env var > file > empty.
func readToken() string {
	if tok := os.Getenv("REELKIT_TOKEN"); tok != "" {
		return tok
	}
	path, err := tokenFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func run() error {
	godotenv.Load() //nolint:errcheck // .env is optional

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("reelkit " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(cfg)
		case "logout":
			return runLogout()
		case "watch":
			return runWatch(cfg)
		}
	}

	log, closer, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	token := readToken()
	if token == "" {
		printLoginHint()
		return nil
	}
	c := client.New(cfg.APIURL, token)
	// Only force re-login on actual auth failures (401), not transient errors.
	projects, err := c.ListProjects(context.Background())
	if err != nil && client.IsStatus(err, 401) {
		printLoginHint()
		return nil
	}
	// Network/server error — launch the TUI anyway, refresh retries.

	p := poller.New(c, poller.Options{
		Interval: cfg.Poll.Interval,
		Ceiling:  cfg.Poll.Ceiling,
		Grace:    cfg.Poll.Grace,
		Logger:   log,
	})
	defer p.Close()
	if err == nil {
		// Hand the startup fetch to the poller so the TUI paints it
		// immediately instead of loading the same list twice.
		p.Prime(projects)
	}

	n := notify.New(cfg.Notify.Desktop, log)

	app := tui.NewApp(c, p, n)
	prog := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogin reads an API token from stdin, verifies it, and saves it.
func runLogin(cfg *config.Config) error {
	fmt.Printf("Paste your API token (from %s/settings/api):\n> ", cfg.APIURL)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return fmt.Errorf("no token entered")
	}

	c := client.New(cfg.APIURL, token)
	projects, err := c.ListProjects(context.Background())
	if err != nil {
		if client.IsStatus(err, 401) {
			return fmt.Errorf("token rejected — check it and try again")
		}
		return fmt.Errorf("verify token: %w", err)
	}

	tokPath, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.WriteFile(tokPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Printf("Authenticated — %d projects on your account.\n", len(projects))
	return nil
}

func runLogout() error {
	tokPath, err := tokenFilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(tokPath); os.IsNotExist(err) {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := os.Remove(tokPath); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func printLoginHint() {
	fmt.Println("reelkit " + version)
	fmt.Println()
	fmt.Println("Not logged in. Run: reelkit login")
}

func printHelp() {
	fmt.Println(`reelkit — your video ads, in the terminal

Usage:
  reelkit            open the dashboard
  reelkit login      save your API token
  reelkit logout     clear your session
  reelkit watch      follow renders headlessly, notify when done
  reelkit version    show version

Environment:
  REELKIT_TOKEN      API token (overrides the saved one)
  REELKIT_API_URL    API base URL`)
}
