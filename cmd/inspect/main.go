package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/journal"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the session journal database")
	last := flag.Int("last", 20, "show N most recent entries")
	counts := flag.Bool("counts", false, "show per-event counts instead of entries")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/advisor.db [--last N] [--counts] [--json]")
		os.Exit(2)
	}

	jnl, err := journal.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer jnl.Close()

	if *counts {
		err = runCountMode(jnl, *jsonOut)
	} else {
		err = runListMode(jnl, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

func runListMode(jnl *journal.Journal, last int, jsonOut bool) error {
	entries, err := jnl.List(last)
	if err != nil {
		return err
	}

	rows := make([]listRow, len(entries))
	for i, e := range entries {
		rows[i] = listRow{
			ID:        e.ID,
			SessionID: e.SessionID,
			Event:     string(e.Event),
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	fmt.Printf("%-6s %-38s %-18s %-20s %s\n", "ID", "SESSION", "EVENT", "CREATED", "DETAIL")
	for _, r := range rows {
		fmt.Printf("%-6d %-38s %-18s %-20s %s\n", r.ID, r.SessionID, r.Event, r.CreatedAt, r.Detail)
	}
	return nil
}

// #endregion list-mode

// #region count-mode

type countRow struct {
	Event string `json:"event"`
	Count int    `json:"count"`
}

func runCountMode(jnl *journal.Journal, jsonOut bool) error {
	counts, err := jnl.CountByEvent()
	if err != nil {
		return err
	}

	rows := make([]countRow, 0, len(counts))
	for event, n := range counts {
		rows = append(rows, countRow{Event: string(event), Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Event < rows[j].Event })

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	fmt.Printf("%-22s %s\n", "EVENT", "COUNT")
	for _, r := range rows {
		fmt.Printf("%-22s %d\n", r.Event, r.Count)
	}
	return nil
}

// #endregion count-mode
