package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelkithq/reelkit/internal/config"
	"github.com/reelkithq/reelkit/internal/logging"
	"github.com/reelkithq/reelkit/internal/notify"
	"github.com/reelkithq/reelkit/pkg/client"
	"github.com/reelkithq/reelkit/pkg/poller"
)

// runWatch follows in-flight renders without the TUI: it polls in the
// background, prints progress to stdout, and fires desktop notifications as
// renders finish. It exits once everything settles (or on ctrl+c).
func runWatch(cfg *config.Config) error {
	token := readToken()
	if token == "" {
		return fmt.Errorf("not logged in — run: reelkit login")
	}

	log, closer, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	c := client.New(cfg.APIURL, token)
	p := poller.New(c, poller.Options{
		Interval: cfg.Poll.Interval,
		Ceiling:  cfg.Poll.Ceiling,
		Grace:    cfg.Poll.Grace,
		Logger:   log,
	})
	defer p.Close()

	n := notify.New(cfg.Notify.Desktop, log)

	projects, err := p.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}

	inFlight := 0
	for _, proj := range projects {
		if proj.InFlight() {
			inFlight++
		}
	}
	if inFlight == 0 {
		fmt.Println("Nothing rendering — all caught up.")
		return nil
	}
	fmt.Printf("Watching %d renders (every %s, ctrl+c to stop)...\n", inFlight, cfg.Poll.Interval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sig:
			fmt.Println("\nStopped.")
			return nil

		case ev, ok := <-p.Events():
			if !ok {
				return nil
			}
			switch ev.Kind {
			case poller.EventCompleted:
				n.RendersFinished(ev.Completed)
				if ev.Completed == 1 {
					fmt.Println("1 render finished.")
				} else {
					fmt.Printf("%d renders finished.\n", ev.Completed)
				}
			case poller.EventSnapshot:
				remaining := 0
				for _, proj := range ev.Projects {
					if proj.InFlight() {
						remaining++
					}
				}
				if remaining == 0 {
					fmt.Println("All renders done.")
					return nil
				}
				fmt.Printf("%d still rendering...\n", remaining)
			case poller.EventExpired:
				fmt.Println("Still rendering after the polling ceiling — check the dashboard later.")
				return nil
			}
		}
	}
}
