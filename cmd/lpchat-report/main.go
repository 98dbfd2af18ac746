// Command lpchat-report prints message-log statistics: total count, per-role
// counts, and the most recent rows. It is a maintenance tool, so unlike the
// chat console its output goes to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/loanworks-dev/lpchat/lpchat/chat/adapters"
	"github.com/loanworks-dev/lpchat/lpchat/config"
	"github.com/loanworks-dev/lpchat/lpchat/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "lpchat-report:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml")
	limit := flag.Int("limit", 10, "number of recent messages to show")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer conn.Close()

	store, err := adapters.NewLibSQLMessageStore(conn, cfg.App.Name, zerolog.Nop())
	if err != nil {
		return err
	}

	ctx := context.Background()

	total, err := store.CountAll(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Total messages: %d\n", total)

	byRole, err := store.CountByRole(ctx)
	if err != nil {
		return err
	}
	fmt.Println("\nMessages by role:")
	for role, count := range byRole {
		fmt.Printf("  %s: %d\n", role, count)
	}

	recent, err := store.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	fmt.Printf("\nMost recent %d messages:\n", len(recent))
	for _, msg := range recent {
		content := msg.Content
		if len(content) > 60 {
			content = content[:60] + "..."
		}
		fmt.Printf("  [%s] seq=%d %s: %s\n",
			msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Sequence, msg.Role, content)
	}

	return nil
}
