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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type authResponse struct {
	Token string `json:"token"`
}

type generateResponse struct {
	Comic  models.Comic `json:"comic"`
	Cached bool         `json:"cached"`
}

type topResponse struct {
	Region string                    `json:"region"`
	Items  []models.LeaderboardEntry `json:"items"`
}

func main() {
	global := flag.NewFlagSet("poseereview", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 2 * time.Minute}

	switch args[0] {
	case "login":
		handleLogin(ctx, client, *baseURL, *tokenPath, args[1:])
	case "comic":
		handleComic(ctx, client, *baseURL, args[1:])
	case "top":
		handleTop(ctx, client, *baseURL, args[1:])
	case "takedown":
		handleTakedown(ctx, client, *baseURL, *tokenPath, args[1:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleLogin(ctx context.Context, client *http.Client, baseURL, tokenPath string, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password")
	_ = fs.Parse(args)

	if *username == "" || *password == "" {
		log.Fatal("username and password are required")
	}

	payload := map[string]string{"username": *username, "password": *password}
	var resp authResponse
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
		log.Fatalf("login failed: %v", err)
	}
	if err := saveToken(tokenPath, resp.Token); err != nil {
		log.Fatalf("save token: %v", err)
	}
	fmt.Println("logged in")
}

func handleComic(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("comic", flag.ExitOnError)
	refresh := fs.Bool("refresh", false, "force regeneration even when cached")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatal("usage: poseereview comic [-refresh] <venue-id>")
	}
	venueID := fs.Arg(0)

	url := fmt.Sprintf("%s/venues/%s/comic", baseURL, venueID)
	if *refresh {
		url += "?refresh=true"
	}

	var resp generateResponse
	if err := doJSON(ctx, client, http.MethodGet, url, "", nil, &resp); err != nil {
		log.Fatalf("generate failed: %v", err)
	}

	source := "fresh"
	if resp.Cached {
		source = "cached"
	}
	fmt.Printf("%s (%s)\n", resp.Comic.VenueName, source)
	fmt.Printf("  score:   %d\n", resp.Comic.Score)
	fmt.Printf("  panels:  %d\n", resp.Comic.PanelCount)
	fmt.Printf("  image:   %s\n", resp.Comic.ImageURL)
	fmt.Printf("  expires: %s\n", resp.Comic.ExpiresAt.Format(time.RFC3339))
	if resp.Comic.Narrative != "" {
		fmt.Printf("  story:   %s\n", resp.Comic.Narrative)
	}
}

func handleTop(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	region := fs.String("region", "", "leaderboard region")
	limit := fs.Int("limit", 10, "entries to show (1-50)")
	_ = fs.Parse(args)

	if *region == "" {
		log.Fatal("usage: poseereview top -region <region> [-limit N]")
	}

	url := fmt.Sprintf("%s/leaderboard/%s?limit=%d", baseURL, *region, *limit)
	var resp topResponse
	if err := doJSON(ctx, client, http.MethodGet, url, "", nil, &resp); err != nil {
		log.Fatalf("leaderboard failed: %v", err)
	}

	if len(resp.Items) == 0 {
		fmt.Printf("no entries in region %q\n", resp.Region)
		return
	}
	for _, e := range resp.Items {
		fmt.Printf("%2d. [%3d] %s — %s\n", e.Rank, e.Score, e.VenueName, e.ImageURL)
	}
}

func handleTakedown(ctx context.Context, client *http.Client, baseURL, tokenPath string, args []string) {
	fs := flag.NewFlagSet("takedown", flag.ExitOnError)
	venueID := fs.String("venue", "", "venue id")
	region := fs.String("region", "", "region tag")
	_ = fs.Parse(args)

	if *venueID == "" {
		log.Fatal("usage: poseereview takedown -venue <venue-id> [-region <region>]")
	}

	token, err := loadToken(tokenPath)
	if err != nil {
		log.Fatal("not logged in: run `poseereview login` first")
	}

	payload := map[string]string{"venue_id": *venueID, "region": *region}
	var resp map[string]string
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/admin/takedown", token, payload, &resp); err != nil {
		log.Fatalf("takedown failed: %v", err)
	}
	fmt.Println("removed")
}

func doJSON(ctx context.Context, client *http.Client, method, url, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".poseereview", "token.json")
}

func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func loadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var data map[string]string
	if err := json.Unmarshal(b, &data); err != nil {
		return "", err
	}
	if data["token"] == "" {
		return "", fmt.Errorf("empty token")
	}
	return data["token"], nil
}

func printUsage() {
	fmt.Println(`usage: poseereview [-api URL] [-token PATH] <command>

commands:
  comic [-refresh] <venue-id>           generate or fetch a venue's comic
  top -region <region> [-limit N]       show a region's leaderboard
  login -username U -password P         admin login
  takedown -venue <venue-id> [-region R] remove a venue's comic and ranking`)
}
