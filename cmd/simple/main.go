package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/micrococo/logbus"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[logbus]
  enabled = true
  flush_interval_ms = 100
  file_path = "./simple.log"
  buffer_size = 1024
  subscriber_buffer_size = 64
  internal_errors_to_stderr = true
`

func main() {
	fmt.Println("--- Simple Bus Example ---")

	// Create dummy config file
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults potentially
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
		// defer os.Remove(configFile) // Remove to keep the saved config file
	}

	// Load bus settings from the file
	cfg, err := logbus.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = logbus.DefaultConfig()
		cfg.Enabled = true
	}

	// Install the process-wide bus exactly once
	if _, err := logbus.Install(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize bus: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Bus initialized.")

	// Watch the stream from another goroutine
	sub := logbus.Subscribe()
	go func() {
		for line := range sub.Lines() {
			fmt.Printf("subscriber saw: %s\n", line)
		}
	}()

	// --- Logging ---
	logbus.Log("Application starting...")
	logbus.LogPrefixed("startup", "configuration loaded")
	logbus.LogLeveled("startup", logbus.SeverityWarn, "running as root")

	// Structured payloads render through a stream
	s := logbus.NewStream("startup", "")
	s.Str("listen addresses ")
	s.Append([]any{"127.0.0.1:9000", "[::1]:9000"})
	s.Close()

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logbus.LogsPrefixed("worker", "goroutine", fmt.Sprint(id), "started")
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logbus.LogsPrefixed("worker", "goroutine", fmt.Sprint(id), "finished")
		}(i)
	}

	// Wait for goroutines to finish before shutting down the bus
	wg.Wait()
	fmt.Println("Goroutines finished.")

	// Force pending lines to the sink before exit
	if err := logbus.Flush(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}

	fmt.Println("Shutting down bus...")
	if err := logbus.CloseDefault(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Bus shutdown error: %v\n", err)
	} else {
		fmt.Println("Bus shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check './simple.log' for the buffered output.\n")
}
