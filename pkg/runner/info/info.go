package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/cycle/pkg/app"
	"tableflip.dev/cycle/pkg/store"
)

type Info struct {
	Config  store.Config
	Session *app.Session
}

func (n *Info) Do(ctx context.Context) error {

	if override := os.Getenv("CYCLE_CONFIG_PATH"); override != "" {
		fmt.Println("CYCLE_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("CYCLE_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	if url := n.Config.RemoteURL(); url != "" {
		fmt.Println("Store:  remote", url)
		fmt.Println("Timeout:", n.Config.RemoteTimeout())
	} else {
		fmt.Println("Store:  local", n.Config.BasePath())
	}
	fmt.Println("Predictions:", n.Config.PredictionMonths(), "months ahead")

	if n.Session == nil {
		return fmt.Errorf("failed to open the period store")
	}

	snap := n.Session.Repository.Snapshot()
	fmt.Printf("Periods:     %d\n", len(snap.Periods))
	fmt.Printf("Predictions: %d\n", len(snap.Predictions))
	if !snap.LoadedAt.IsZero() {
		fmt.Printf("Loaded:      %s\n", snap.LoadedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}
