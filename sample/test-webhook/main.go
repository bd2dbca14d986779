// Simulates webhook POSTs from Instagram and Messenger against a
// running bot, local or deployed.
package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
)

const instagramPayload = `{
  "object": "instagram",
  "entry": [
    {
      "id": "1234567890",
      "time": 1731200000,
      "changes": [
        {
          "field": "messages",
          "value": {
            "from": {"id": "IG_USER_123"},
            "message": {"text": "start"},
            "id": "IG_MESSAGE_456"
          }
        }
      ]
    }
  ]
}`

const messengerPayload = `{
  "object": "page",
  "entry": [
    {
      "id": "PAGE_123456",
      "time": 1731200000,
      "messaging": [
        {
          "sender": {"id": "FB_USER_789"},
          "recipient": {"id": "PAGE_123456"},
          "timestamp": 1731200000,
          "message": {"mid": "MID.abc123", "text": "start"}
        }
      ]
    }
  ]
}`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  no .env file found, using system environment")
	}

	baseURL := os.Getenv("BOT_WEBHOOK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/webhook"
	}

	fmt.Printf("🚀 Sending simulated webhook events to %s\n\n", baseURL)

	sendWebhook(baseURL, "Instagram", instagramPayload)
	sendWebhook(baseURL, "Messenger", messengerPayload)

	fmt.Println("\n✅ Done. Check the bot logs for the replies it tried to send.")
}

func sendWebhook(baseURL, platform, payload string) {
	fmt.Printf("🧪 Sending simulated %s message...\n", platform)

	resp, err := http.Post(baseURL, "application/json", bytes.NewBufferString(payload))
	if err != nil {
		log.Fatalf("sending %s payload: %v", platform, err)
	}
	defer resp.Body.Close()

	fmt.Printf("   %s webhook answered with status %d\n", platform, resp.StatusCode)
}
