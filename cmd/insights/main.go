package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/example/commerce-agent/internal/analytics"
)

// counter tallies consumed events per type so the shopping funnel is
// visible straight from the service logs.
type counter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *counter) handle(ctx context.Context, key, value []byte) error {
	var event analytics.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Insights] Skipping malformed event: %v", err)
		return nil
	}

	c.mu.Lock()
	c.counts[event.Type]++
	count := c.counts[event.Type]
	c.mu.Unlock()

	log.Printf("[Insights] %s session=%s total(%s)=%d", event.Type, event.SessionID, event.Type, count)
	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9092")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "commerce-insights")
	consumerGroup := "insights"

	log.Println("[Insights] ========================================")
	log.Println("[Insights] Commerce Agent - Insights Service")
	log.Println("[Insights] ========================================")
	log.Printf("[Insights] Kafka: %v", kafkaBrokers)
	log.Printf("[Insights] Topic: %s", kafkaTopic)
	log.Printf("[Insights] Group: %s", consumerGroup)

	tally := &counter{counts: make(map[string]int)}

	// Initialize Kafka consumer
	consumer := analytics.NewConsumer(kafkaBrokers, kafkaTopic, consumerGroup)
	defer consumer.Close()

	// Start consuming
	go func() {
		log.Println("[Insights] Starting event consumer...")
		if err := consumer.Consume(ctx, tally.handle); err != nil {
			log.Printf("[Insights] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Insights] Shutting down...")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
