package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"campusmarket/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

type postListResponse struct {
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Items []models.Post `json:"items"`
}

func main() {
	global := flag.NewFlagSet("campusmarket", flag.ExitOnError)
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
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "posts":
		handlePosts(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "votes":
		handleVotes(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "comments":
		handleComments(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "watch":
		handleWatch(*baseURL, sub, args[2:])
	case "export":
		handleExport(ctx, client, *baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		name := fs.String("name", "", "display name")
		course := fs.String("course", "", "course")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		payload := map[string]string{
			"username":     *username,
			"email":        *email,
			"password":     *password,
			"display_name": *name,
			"course":       *course,
		}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: campusmarket auth <login|register|logout>")
	}
}

func handlePosts(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("posts list", flag.ExitOnError)
		module := fs.String("modulo", "", "module filter")
		category := fs.String("categoria", "", "category filter")
		query := fs.String("q", "", "text filter")
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", 20, "page size")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/api/v1/posts")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *module != "" {
			qv.Set("modulo", *module)
		}
		if *category != "" {
			qv.Set("categoria", *category)
		}
		if *query != "" {
			qv.Set("q", *query)
		}
		qv.Set("page", fmt.Sprintf("%d", *page))
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		u.RawQuery = qv.Encode()

		var resp postListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "search":
		fs := flag.NewFlagSet("posts search", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		module := fs.String("modulo", "", "module filter")
		category := fs.String("categoria", "", "category filter")
		limit := fs.Int("limit", 50, "max results")
		_ = fs.Parse(args)
		if *query == "" {
			log.Fatal("q is required")
		}

		u, err := url.Parse(baseURL + "/api/v1/posts/search")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		qv.Set("q", *query)
		if *module != "" {
			qv.Set("modulo", *module)
		}
		if *category != "" {
			qv.Set("categoria", *category)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("search failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("posts show", flag.ExitOnError)
		id := fs.String("id", "", "post id")
		card := fs.Bool("card", false, "fetch the rendered card instead")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("post id is required")
		}

		endpoint := baseURL + "/api/v1/posts/" + url.PathEscape(*id)
		if *card {
			endpoint += "/card"
		}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "create":
		fs := flag.NewFlagSet("posts create", flag.ExitOnError)
		file := fs.String("file", "", "JSON file with the post fields (- for stdin)")
		_ = fs.Parse(args)
		if *file == "" {
			log.Fatal("file is required")
		}

		var data []byte
		var err error
		if *file == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(*file)
		}
		if err != nil {
			log.Fatalf("read post: %v", err)
		}

		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			log.Fatalf("parse post json: %v", err)
		}

		token := mustToken(tokenPath)
		var resp models.Post
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/v1/posts", token, payload, &resp); err != nil {
			log.Fatalf("create failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: campusmarket posts <list|search|show|create>")
	}
}

func handleVotes(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "up", "down":
		fs := flag.NewFlagSet("votes "+sub, flag.ExitOnError)
		postID := fs.String("post-id", "", "post id")
		_ = fs.Parse(args)
		if *postID == "" {
			log.Fatal("post-id is required")
		}

		value := 1
		if sub == "down" {
			value = -1
		}
		payload := map[string]any{"post_id": *postID, "value": value}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/v1/votes", token, payload, &resp); err != nil {
			log.Fatalf("vote failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("votes remove", flag.ExitOnError)
		postID := fs.String("post-id", "", "post id")
		_ = fs.Parse(args)
		if *postID == "" {
			log.Fatal("post-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/api/v1/votes/"+url.PathEscape(*postID), token, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/api/v1/votes", token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: campusmarket votes <up|down|remove|list>")
	}
}

func handleComments(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "add":
		fs := flag.NewFlagSet("comments add", flag.ExitOnError)
		postID := fs.String("post-id", "", "post id")
		text := fs.String("text", "", "comment text")
		_ = fs.Parse(args)
		if *postID == "" || *text == "" {
			log.Fatal("post-id and text are required")
		}

		token := mustToken(tokenPath)
		payload := map[string]any{"post_id": *postID, "texto": *text}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/v1/comments", token, payload, &resp); err != nil {
			log.Fatalf("comment failed: %v", err)
		}
		printJSON(resp)
	case "list":
		fs := flag.NewFlagSet("comments list", flag.ExitOnError)
		postID := fs.String("post-id", "", "post id")
		_ = fs.Parse(args)
		if *postID == "" {
			log.Fatal("post-id is required")
		}

		endpoint := baseURL + "/api/v1/posts/" + url.PathEscape(*postID) + "/comments"
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: campusmarket comments <add|list>")
	}
}

func handleWatch(baseURL, sub string, args []string) {
	switch sub {
	case "tcp":
		fs := flag.NewFlagSet("watch tcp", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:9090", "TCP feed event server address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runWatchTCP(*addr, *pretty); err != nil {
				log.Printf("[watch] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	case "ws":
		fs := flag.NewFlagSet("watch ws", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWatchWS(endpoint); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	default:
		log.Fatal("usage: campusmarket watch <tcp|ws>")
	}
}

func handleExport(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "seed":
		fs := flag.NewFlagSet("export seed", flag.ExitOnError)
		out := fs.String("out", "data/seed.json", "output JSON path")
		limit := fs.Int("limit", 500, "max posts to export")
		_ = fs.Parse(args)

		items, err := fetchPosts(ctx, client, baseURL, *limit)
		if err != nil {
			log.Fatalf("export seed failed: %v", err)
		}
		if err := writeSeed(*out, items); err != nil {
			log.Fatalf("write seed failed: %v", err)
		}
		log.Printf("✅ exported %d posts to %s", len(items), *out)
	default:
		log.Fatal("usage: campusmarket export seed")
	}
}

func runWatchTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[watch] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWatchWS(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func fetchPosts(ctx context.Context, client *http.Client, baseURL string, limit int) ([]models.Post, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	var out []models.Post
	page := 1
	for len(out) < limit {
		pageSize := 100
		if remaining := limit - len(out); remaining < pageSize {
			pageSize = remaining
		}
		u, err := url.Parse(baseURL + "/api/v1/posts")
		if err != nil {
			return nil, err
		}
		qv := u.Query()
		qv.Set("limit", fmt.Sprintf("%d", pageSize))
		qv.Set("page", fmt.Sprintf("%d", page))
		u.RawQuery = qv.Encode()

		var resp postListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		out = append(out, resp.Items...)
		if len(out) >= resp.Total {
			break
		}
		page++
	}

	return out, nil
}

func writeSeed(path string, items []models.Post) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	doc := map[string]any{"anuncios": items}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
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

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.campusmarket-token.json"
	}
	return filepath.Join(home, ".campusmarket", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("campusmarket <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  posts list|search|show|create")
	fmt.Println("  votes up|down|remove|list")
	fmt.Println("  comments add|list")
	fmt.Println("  watch tcp|ws")
	fmt.Println("  export seed")
}
