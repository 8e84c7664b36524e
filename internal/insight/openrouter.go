package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

const (
	apiURL    = "https://openrouter.ai/api/v1/chat/completions"
	modelName = "meta-llama/llama-3.3-70b-instruct:free"

	systemPrompt = `You are a motivational life coach and productivity expert helping 9-5 professionals optimize their lives.
Be encouraging, specific, and actionable. Keep responses concise (2-3 sentences).
Focus on practical advice and positive reinforcement.`
)

// Stats is the slice of the user's day the fallback selector weights on.
type Stats struct {
	CompletionRate float64
	CurrentStreak  int
}

// Client generates motivational text through the OpenRouter chat-completions
// API. An unconfigured key or any transport failure degrades silently to a
// canned fallback message; Generate never fails the caller for those.
type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, prompt string, stats Stats) (string, error) {
	if c.apiKey == "" {
		return FallbackMessage(stats), nil
	}

	payload, err := json.Marshal(chatRequest{
		Model: modelName,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "https://lifeos.app")
	req.Header.Set("X-Title", "Life OS")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("openrouter request failed, using fallback: %v", err)
		return FallbackMessage(stats), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("openrouter status %d, using fallback", resp.StatusCode)
		return FallbackMessage(stats), nil
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("openrouter decode failed, using fallback: %v", err)
		return FallbackMessage(stats), nil
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return FallbackMessage(stats), nil
	}
	return parsed.Choices[0].Message.Content, nil
}

var fallbackMessages = []string{
	"Every step forward, no matter how small, is progress. Keep going!",
	"Your consistency today builds the success of tomorrow. Stay focused!",
	"The fact that you're here shows you're committed to growth. That's powerful!",
	"Small daily improvements lead to stunning long-term results. You've got this!",
	"Your future self will thank you for the work you're putting in today.",
	"Excellence is not an act, but a habit. You're building that habit right now.",
	"The only way to do great work is to love what you do. Keep pursuing your goals!",
	"Success is the sum of small efforts repeated day in and day out.",
}

// FallbackMessage picks the canned message for the given stats: strong days
// and long streaks get tailored lines, everything else a random pick.
func FallbackMessage(stats Stats) string {
	if stats.CompletionRate > 70 {
		return "Outstanding progress today! Your dedication is truly inspiring. Keep this momentum going!"
	}
	if stats.CurrentStreak > 7 {
		return fmt.Sprintf("%d days strong! Your consistency is remarkable. This is how champions are made!", stats.CurrentStreak)
	}
	return fallbackMessages[rand.Intn(len(fallbackMessages))]
}
