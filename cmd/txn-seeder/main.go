package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/riskstream/riskstream/internal/models"
	"github.com/riskstream/riskstream/internal/simulator"
)

type transactionRequest struct {
	UserID   string               `json:"user_id"`
	Features models.FeatureVector `json:"features"`
}

var rootCmd = &cobra.Command{
	Use:   "txn-seeder",
	Short: "Seed a RiskStream instance with synthetic transactions",
	Long:  "Posts randomly generated transactions to a running RiskStream service, mixing normal and suspicious traffic profiles.",
	Example: `  txn-seeder --count 50
  txn-seeder --url http://localhost:8095 --interval 200ms --suspicious-ratio 0.5`,
	RunE: run,
}

func init() {
	rootCmd.Flags().String("url", "http://localhost:8095", "RiskStream service URL")
	rootCmd.Flags().Int("count", 100, "Number of transactions to send")
	rootCmd.Flags().Duration("interval", 100*time.Millisecond, "Pause between transactions")
	rootCmd.Flags().Float64("suspicious-ratio", 0.2, "Fraction of transactions drawn from the suspicious profile")
	rootCmd.Flags().Int("users", 20, "Size of the synthetic user pool")
}

func run(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("url")
	count, _ := cmd.Flags().GetInt("count")
	interval, _ := cmd.Flags().GetDuration("interval")
	ratio, _ := cmd.Flags().GetFloat64("suspicious-ratio")
	userPool, _ := cmd.Flags().GetInt("users")

	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("suspicious-ratio must be in [0, 1]")
	}
	if userPool <= 0 {
		userPool = 1
	}

	gofakeit.Seed(time.Now().UnixNano())

	users := make([]string, userPool)
	for i := range users {
		users[i] = "user_" + gofakeit.DigitN(4)
	}

	log.Printf("Seeding %d transactions to %s (interval: %v, suspicious ratio: %.2f)", count, baseURL, interval, ratio)

	client := &http.Client{Timeout: 10 * time.Second}
	endpoint := baseURL + "/api/v1/transactions"

	successCount := 0
	fraudCount := 0
	failCount := 0

	for i := 0; i < count; i++ {
		req := transactionRequest{
			UserID: users[rand.Intn(len(users))],
		}
		if rand.Float64() < ratio {
			req.Features = simulator.SuspiciousProfile()
		} else {
			req.Features = simulator.NormalProfile()
		}

		isFraud, err := send(client, endpoint, req)
		if err != nil {
			log.Printf("Failed to send transaction: %v", err)
			failCount++
		} else {
			successCount++
			if isFraud {
				fraudCount++
			}
			if successCount%50 == 0 {
				log.Printf("Progress: %d/%d transactions sent", successCount, count)
			}
		}

		if interval > 0 && i < count-1 {
			time.Sleep(interval)
		}
	}

	log.Printf("Seeding complete:")
	log.Printf("  Success: %d transactions (%d flagged as fraud)", successCount, fraudCount)
	log.Printf("  Failed: %d transactions", failCount)
	return nil
}

func send(client *http.Client, endpoint string, req transactionRequest) (bool, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return false, err
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var scored struct {
		IsFraud bool `json:"is_fraud"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		return false, err
	}
	return scored.IsFraud, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
