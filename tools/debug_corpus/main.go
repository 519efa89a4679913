package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"
)

func main() {
	chURL := os.Getenv("CLICKHOUSE_URL")
	if chURL == "" {
		chURL = "clickhouse://localhost:9000/props_stats"
	}

	opts, err := clickhouse.ParseDSN(chURL)
	if err != nil {
		log.Fatalf("Failed to parse DSN: %v", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open connection: %v", err)
	}
	defer conn.Close()

	if len(os.Args) < 2 {
		log.Fatal("Usage: debug_corpus <player_id> [stat_type]")
	}
	playerID := os.Args[1]
	statType := ""
	if len(os.Args) > 2 {
		statType = os.Args[2]
	}

	ctx := context.Background()

	query := `
		SELECT season, week, opponent, stat_type, stat_value
		FROM props_stats.performance_samples
		WHERE player_id = ?
	`
	args := []any{playerID}
	if statType != "" {
		query += " AND stat_type = ?"
		args = append(args, statType)
	}
	query += " ORDER BY season DESC, week DESC"

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			season, week int32
			opponent     string
			stat         string
			value        float64
		)
		if err := rows.Scan(&season, &week, &opponent, &stat, &value); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		fmt.Printf("%d wk%-2d vs %-3s  %-22s %.1f\n", season, week, opponent, stat, value)
		count++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Rows error: %v", err)
	}

	fmt.Printf("\n%d samples for %s\n", count, playerID)
}
