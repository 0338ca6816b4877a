package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dataengine/internal/anonymize"
	"dataengine/internal/asset"
	"dataengine/internal/cache"
	"dataengine/internal/config"
	"dataengine/internal/engine"
	"dataengine/internal/logger"
	"dataengine/internal/monitoring"
	"dataengine/internal/security"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	recordsPath := flag.String("records", "", "path to a JSON file with records to anonymize")
	targetLevel := flag.String("level", "k_anonymous", "anonymization target level")
	quasiIDs := flag.String("quasi", "city,age", "comma-separated quasi-identifier field names")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging)

	cacher, err := cache.NewCacher(&cache.Config{
		Enabled:  cfg.Redis.Enabled,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.WithField("error", err.Error()).Warn("Cache backend unavailable, using in-memory fallback")
		cacher = cache.NewMemoryCache(0)
	}
	defer cacher.Close()

	eng := engine.New(cfg, log, monitoring.NewMetrics(nil), cacher,
		security.NewEnvSecretProvider(cfg.Anonymization.SecretEnvVar))

	records, err := loadRecords(*recordsPath)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to load records")
	}

	result, err := eng.RunAnonymizationPipeline(context.Background(), records, anonymize.Config{
		TargetLevel:      asset.AnonymizationLevel(*targetLevel),
		QuasiIdentifiers: splitFields(*quasiIDs),
	})
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Pipeline failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to encode result")
	}
	fmt.Println(string(out))

	log.WithFields(logrus.Fields{
		"output_records": result.OutputRecords,
		"risk_level":     anonymize.RiskLabel(result),
	}).Info("Done")
}

// loadRecords reads a JSON array of records, or a small built-in
// sample batch when no file is given.
func loadRecords(path string) ([]asset.Record, error) {
	if path == "" {
		return sampleRecords(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []asset.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records file: %w", err)
	}
	return records, nil
}

func sampleRecords() []asset.Record {
	return []asset.Record{
		{"email": "alice@example.com", "name": "Alice", "city": "Paris", "age": 31.0, "amount": 120.0},
		{"email": "bob@example.com", "name": "Bob", "city": "Paris", "age": 33.0, "amount": 80.0},
		{"email": "carol@example.com", "name": "Carol", "city": "Paris", "age": 34.0, "amount": 95.0},
		{"email": "dave@example.com", "name": "Dave", "city": "Lyon", "age": 52.0, "amount": 60.0},
		{"email": "erin@example.com", "name": "Erin", "city": "Lyon", "age": 54.0, "amount": 70.0},
		{"email": "frank@example.com", "name": "Frank", "city": "Lyon", "age": 51.0, "amount": 40.0},
	}
}

func splitFields(s string) []string {
	var out []string
	for _, field := range strings.Split(s, ",") {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}
