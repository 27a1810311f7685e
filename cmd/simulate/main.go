// Command simulate replays a scripted scam conversation against a running
// honeypot server and prints the persona's replies, so the escalation
// behavior can be eyeballed end to end.
//
// Usage:
//
//	go run ./cmd/simulate [-url http://localhost:8080] [-key test-secret-key] [-session demo-001]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"scambait/honeypot-api/internal/domain"
)

// script walks the classic KYC-scare arc: innocuous opener, threat, phishing
// link, then the payment handle — the sequence the escalation policy is
// designed to extract.
var script = []string{
	"Hello, I am calling from your bank.",
	"Your KYC is expired, account blocked in 10 minutes.",
	"Pay the penalty here immediately: https://kyc-update-portal.example/verify",
	"You can also send directly, UPI manager@upi, or call 9876543210.",
}

func main() {
	url := "http://localhost:8080"
	key := "test-secret-key"
	sessionID := fmt.Sprintf("sim-%d", time.Now().Unix())

	args := os.Args[1:]
	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "-url":
			url = args[i+1]
		case "-key":
			key = args[i+1]
		case "-session":
			sessionID = args[i+1]
		}
	}

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Printf("replaying %d turns against %s (session %s)\n\n", len(script), url, sessionID)

	for turn, text := range script {
		resp, err := send(client, url, key, sessionID, text, turn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "turn %d failed: %v\n", turn+1, err)
			os.Exit(1)
		}

		fmt.Printf("scammer: %s\n", text)
		fmt.Printf("  agent: %s\n", resp.Reply)
		fmt.Printf("         risk=%s scam=%v categories=%v\n\n",
			resp.ConfidencePercent, resp.IsScam, resp.MatchedCategories)

		time.Sleep(200 * time.Millisecond)
	}
}

func send(client *http.Client, url, key, sessionID, text string, turn int) (*domain.AnalyzeResponse, error) {
	payload := domain.AnalyzeRequest{
		SessionID: sessionID,
		Message: domain.InboundMessage{
			Sender:    "scammer",
			Text:      text,
			Timestamp: time.Now().UnixMilli(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url+"/api/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", key)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out domain.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
