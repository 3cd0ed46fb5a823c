// Command warsim analyzes a war snapshot file, either in-process or by
// posting it to a running server.
//
//	warsim -file war.json -clan '#2R9JPR82Y'
//	warsim -file war.json -clan '#2R9JPR82Y' -api http://localhost:8080
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/clanwars/cwl-stats/internal/config"
	"github.com/clanwars/cwl-stats/internal/logic"
	"github.com/clanwars/cwl-stats/internal/models"
)

func main() {
	file := flag.String("file", "", "war snapshot JSON file")
	clan := flag.String("clan", "", "clan tag the verdict is for")
	api := flag.String("api", "", "server base URL; analyze in-process when empty")
	preset := flag.String("preset", "league", "star preset name")
	presetsFile := flag.String("presets-file", "", "optional YAML star presets")
	trials := flag.Int("trials", logic.DefaultTrials, "Monte Carlo trials")
	seed := flag.Int64("seed", 0, "random seed (0 = clock)")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}
	payload, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read snapshot: %v", err)
	}

	if *api != "" {
		postSnapshot(*api, *clan, payload)
		return
	}

	var snap models.WarSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		log.Fatalf("Failed to parse snapshot: %v", err)
	}

	var overrides map[string][][]float64
	if *presetsFile != "" {
		if overrides, err = config.LoadPresetFile(*presetsFile); err != nil {
			log.Fatal(err)
		}
	}
	model, err := logic.ResolveStarModel(*preset, overrides)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	svc := logic.NewWarService(&logic.Estimator{Model: model, Trials: *trials, Seed: *seed}, logger)
	analysis, err := svc.Analyze(context.Background(), &snap, *clan)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		log.Fatal(err)
	}
}

func postSnapshot(base, clan string, payload []byte) {
	endpoint := base + "/api/v1/war/outcome"
	if clan != "" {
		endpoint += "?clan_tag=" + url.QueryEscape(clan)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
