package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Simplified DTOs for the script
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type session struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	State    string `json:"state"`
}

type reply struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	State      string `json:"state"`
	HasMore    bool   `json:"has_more"`
	Suggestion *struct {
		Original  string `json:"original_term"`
		Suggested string `json:"suggested_term"`
	} `json:"suggestion"`
	Results []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		ZipCode string `json:"zip_code"`
	} `json:"results"`
}

type scenario struct {
	name     string
	category string
	turns    []string
}

var scenarios = []scenario{
	{name: "Dental near 60629, paged to the end", category: "healthcare", turns: []string{"dental 60629", "more", "more"}},
	{name: "Misspelling accepted", category: "healthcare", turns: []string{"dentel 60629", "yes"}},
	{name: "Misspelling declined", category: "healthcare", turns: []string{"vison 60608", "no"}},
	{name: "Day range", category: "healthcare", turns: []string{"clinic open Mon-Wed"}},
	{name: "Other category hint", category: "healthcare", turns: []string{"esl classes"}},
	{name: "Education", category: "education", turns: []string{"ged classes spanish", "more"}},
	{name: "Nothing to continue", category: "resettlement-legal-shelter", turns: []string{"more", "legal aid"}},
}

func main() {
	baseURL := os.Getenv("SIM_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}
	client := &http.Client{Timeout: 30 * time.Second}

	color.Cyan("=== Community Resource Navigator Simulation (%s) ===", baseURL)

	failed := 0
	for _, sc := range scenarios {
		color.Yellow("\n▶ %s [%s]", sc.name, sc.category)

		var s session
		if err := call(client, http.MethodPost, baseURL+"/chat/v1/session", map[string]string{"category": sc.category}, &s); err != nil {
			color.Red("  create session failed: %v", err)
			failed++
			continue
		}

		for _, text := range sc.turns {
			fmt.Printf("  USER: %s\n", text)
			start := time.Now()
			var r reply
			if err := call(client, http.MethodPost, baseURL+"/chat/v1/session/"+s.ID+"/query", map[string]string{"text": text}, &r); err != nil {
				color.Red("  error: %v", err)
				failed++
				break
			}
			printReply(r, time.Since(start))
		}
	}

	color.Yellow("\n▶ Dataset status")
	var statuses []map[string]interface{}
	if err := call(client, http.MethodGet, baseURL+"/admin/v1/status", nil, &statuses); err != nil {
		color.Red("  error: %v", err)
		failed++
	}
	for _, st := range statuses {
		fmt.Printf("  %v: loaded=%v records=%v source=%v\n", st["display_name"], st["loaded"], st["records"], st["source"])
	}

	if failed > 0 {
		color.Red("\n%d step(s) failed", failed)
		os.Exit(1)
	}
	color.Green("\nAll scenarios completed")
}

func printReply(r reply, elapsed time.Duration) {
	color.Green("  BOT (%s, %v): %s", r.Kind, elapsed.Round(time.Millisecond), firstLine(r.Message))
	if r.Suggestion != nil {
		fmt.Printf("       suggestion: %s -> %s\n", r.Suggestion.Original, r.Suggestion.Suggested)
	}
	for _, rec := range r.Results {
		fmt.Printf("       • %s %s (%s)\n", rec.ID, rec.Name, rec.ZipCode)
	}
	if r.HasMore {
		fmt.Println("       … more available")
	}
}

func call(client *http.Client, method, url string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("status %d: undecodable body: %w", resp.StatusCode, err)
	}
	if !env.Success {
		return fmt.Errorf("status %d: %s", resp.StatusCode, env.Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
