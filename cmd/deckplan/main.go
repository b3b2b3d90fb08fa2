package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"deckplan/pkg/api"
	"deckplan/pkg/config"
	"deckplan/pkg/memory"
	"deckplan/pkg/renderer"
	"deckplan/pkg/synth"
	"deckplan/pkg/workflow"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	docPath := flag.String("doc", "", "Path to the proposal document (\"-\" reads stdin)")
	sessionID := flag.String("session", "", "Session identifier (generated if empty)")
	serverMode := flag.Bool("server", false, "Run as API server")
	serverAddr := flag.String("addr", ":8080", "Address for API server to listen on")
	clientMode := flag.Bool("client", false, "Run as API client")
	serverURL := flag.String("server-url", "http://localhost:8080", "URL of the API server")
	mockMode := flag.Bool("mock", false, "Use the scripted synthesis client (no API calls)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	if *verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Println("Verbose logging enabled")
	}

	// Determine config path
	if *configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get user home directory: %v", err)
		}
		*configPath = filepath.Join(homeDir, ".deckplan", "config.json")
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config: %v", err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}

	if err := os.MkdirAll(cfg.WorkingDir, 0755); err != nil {
		log.Fatalf("Failed to create working directory: %v", err)
	}

	if *sessionID == "" {
		*sessionID = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}

	// Client mode only needs the HTTP client
	if *clientMode {
		runClient(*serverURL, *sessionID, *docPath)
		return
	}

	synthClient, err := buildSynthClient(cfg, *configPath, *mockMode)
	if err != nil {
		log.Fatalf("Failed to initialize synthesis client: %v", err)
	}

	renderService := buildRenderer(cfg)

	store, err := memory.NewFileStore(filepath.Join(cfg.WorkingDir, "sessions"))
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	engine := workflow.NewEngine(synthClient, renderService)
	runner := workflow.NewRunner(engine, store)

	if *serverMode {
		server := api.NewServer(*serverAddr, runner)
		if err := server.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	document, err := readDocument(*docPath)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	runInteractive(context.Background(), runner, *sessionID, document, cfg.MaxRevisions)
}

// buildSynthClient selects the synthesis provider from configuration
func buildSynthClient(cfg *config.Config, configPath string, mock bool) (synth.Client, error) {
	if mock {
		return synth.NewScriptedClient(), nil
	}

	apiKey, ok := cfg.APIKeys[cfg.LLMProvider]
	if !ok || apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("API key for provider %q not found; set it in the config file or OPENAI_API_KEY", cfg.LLMProvider)
		}
		if cfg.APIKeys == nil {
			cfg.APIKeys = make(map[string]string)
		}
		cfg.APIKeys[cfg.LLMProvider] = apiKey
		config.SaveConfig(cfg, configPath)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second

	switch cfg.LLMProvider {
	case "openai":
		return synth.NewOpenAIClient(apiKey, cfg.Model).WithTimeout(timeout), nil
	case "deepseek":
		return synth.NewOpenAIClient(apiKey, cfg.Model).
			WithBaseURL("https://api.deepseek.com/v1").
			WithTimeout(timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

// buildRenderer wires the slides service when a credential is
// configured. Absence disables rendering, it is not an error.
func buildRenderer(cfg *config.Config) renderer.Service {
	if cfg.SlidesServiceURL == "" || cfg.SlidesCredentialsPath == "" {
		color.Yellow("Slides rendering disabled: configure slides_service_url and slides_credentials_path to enable it.")
		return nil
	}
	client, err := renderer.NewSlidesClient(cfg.SlidesServiceURL, cfg.SlidesCredentialsPath)
	if err != nil {
		color.Yellow("Slides rendering disabled: %v", err)
		return nil
	}
	return client
}

// readDocument loads the proposal document from a file or stdin
func readDocument(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("provide a document with -doc (or \"-\" for stdin)")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// runInteractive drives a session locally: start, show the review
// message, then read feedback lines until the session leaves draft.
func runInteractive(ctx context.Context, runner *workflow.Runner, sessionID, document string, maxRevisions int) {
	color.Cyan("Starting session %s", sessionID)
	fmt.Println("Analyzing document and generating presentation plan...")
	fmt.Println()

	state, err := runner.Start(ctx, sessionID, document, maxRevisions)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	reviewLoop(sessionID, state, func(feedback string) (*workflow.State, error) {
		return runner.Resume(ctx, sessionID, feedback)
	})
}

// runClient drives a session through a remote API server
func runClient(serverURL, sessionID, docPath string) {
	client := api.NewClient(serverURL)
	if err := client.Health(); err != nil {
		log.Fatalf("Server not reachable: %v", err)
	}

	document, err := readDocument(docPath)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	color.Cyan("Starting session %s on %s", sessionID, serverURL)
	state, err := client.StartSession(document, sessionID, 0)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	reviewLoop(sessionID, state, func(feedback string) (*workflow.State, error) {
		return client.SubmitFeedback(sessionID, feedback)
	})
}

// reviewLoop is the shared interactive review cycle over either a local
// runner or a remote API client
func reviewLoop(sessionID string, state *workflow.State, resume func(string) (*workflow.State, error)) {
	printLastMessage(state)

	reader := bufio.NewScanner(os.Stdin)
	for state.Status == workflow.StatusDraft {
		fmt.Println()
		fmt.Println(strings.Repeat("-", 50))
		fmt.Print("Your response: ")
		if !reader.Scan() {
			break
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			fmt.Println("Please provide feedback or type 'approve'/'reject'.")
			continue
		}

		next, err := resume(input)
		if err != nil {
			color.Red("Error: %v", err)
			if next == nil {
				return
			}
			state = next
			continue
		}
		state = next
		fmt.Println()
		printLastMessage(state)
	}

	printFinalStatus(state)
}

func printLastMessage(state *workflow.State) {
	if msg := state.LastMessage(); msg != "" {
		fmt.Println(msg)
	}
}

func printFinalStatus(state *workflow.State) {
	fmt.Println()
	switch state.Status {
	case workflow.StatusApproved:
		color.Green("Final status: %s", state.Status)
	case workflow.StatusRejected:
		color.Red("Final status: %s", state.Status)
	default:
		if state.Error != "" {
			color.Red("Session ended with error: %s", state.Error)
		} else {
			color.Yellow("Final status: %s", state.Status)
		}
	}
}
