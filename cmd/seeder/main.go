// seeder posts a mock game sample batch to a running server's ingest
// endpoint. Useful for smoke-testing the ingest pipeline end to end:
// analytics insert, narrative build, embedding, vector upsert.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const apiURL = "http://localhost:8080/api/v1/ingest/samples"

// Sample matches models.GameSample.
type Sample struct {
	PlayerID   string             `json:"player_id"`
	PlayerName string             `json:"player_name"`
	Position   string             `json:"position"`
	TeamID     string             `json:"team_id"`
	Season     int                `json:"season"`
	Week       int                `json:"week"`
	Opponent   string             `json:"opponent"`
	Home       bool               `json:"home"`
	GameDate   string             `json:"game_date"`
	Stats      map[string]float64 `json:"stats"`
}

func main() {
	samples := []Sample{
		{
			PlayerID:   "test-wr-001",
			PlayerName: "Test Receiver",
			Position:   "WR",
			TeamID:     "PHI",
			Season:     2025,
			Week:       9,
			Opponent:   "WSH",
			Home:       true,
			GameDate:   "2025-11-02",
			Stats: map[string]float64{
				"receiving_yards": 87.0,
				"receptions":      6,
				"targets":         9,
			},
		},
		{
			PlayerID:   "test-qb-001",
			PlayerName: "Test Quarterback",
			Position:   "QB",
			TeamID:     "PHI",
			Season:     2025,
			Week:       9,
			Opponent:   "WSH",
			Home:       true,
			GameDate:   "2025-11-02",
			Stats: map[string]float64{
				"passing_yards":      264.0,
				"passing_touchdowns": 2,
				"interceptions":      1,
				"rushing_yards":      31.0,
			},
		},
	}

	payload, err := json.Marshal(samples)
	if err != nil {
		log.Fatalf("Failed to marshal samples: %v", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode == http.StatusAccepted {
		fmt.Println("Seed accepted")
	} else {
		fmt.Println("Seed rejected")
	}
}
