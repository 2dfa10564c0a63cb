// FILE: lixenwraith/conftree/example/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/conftree"
)

// AppConfig is decoded from the [server] section.
type AppConfig struct {
	Host     string        `conf:"host" validate:"required"`
	Port     int           `conf:"port" validate:"min=1024,max=65535"`
	LogLevel string        `conf:"log_level" validate:"oneof=debug info warn error"`
	Timeout  time.Duration `conf:"timeout"`
	Features struct {
		Metrics bool `conf:"metrics"`
		Caching bool `conf:"caching"`
	} `conf:"features"`
}

const configFilePath = "server.conf"

const initialConfig = `# Example server configuration
[server]
	host = localhost
	port = 8080 # default port
	log_level = info
	timeout = 30s

	[features]
		metrics = yes
		caching = off
	[!features]
[!server]
`

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating initial configuration file...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(configFilePath)
		log.Printf("Removed %s.", configFilePath)
	}()

	if err := os.WriteFile(configFilePath, []byte(initialConfig), 0644); err != nil {
		log.Fatalf("❌ Failed during initial file creation: %v", err)
	}
	log.Printf("✅ Initial configuration saved to %s.", configFilePath)

	// =========================================================================
	// PART 2: BUILDER, TYPED ACCESS AND STRUCT DECODING
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Loading with the Builder...")

	cache := conftree.NewCache(conftree.DefaultCacheOptions())

	portValidator := func(c *conftree.Config) error {
		port, err := c.Int("server.port")
		if err != nil {
			return err
		}
		if port < 1024 {
			return fmt.Errorf("port %d is below 1024", port)
		}
		return nil
	}

	cfg, err := conftree.NewBuilder().
		WithCache(cache).
		WithFile(configFilePath).
		WithValidator(portValidator).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}

	host, _ := cfg.String("server.host")
	port := cfg.TryInt(80, "server.port")
	retries := cfg.TryInt(3, "server.retries")
	log.Printf("✅ host=%s port=%d retries=%d (default)", host, port, retries)

	target := &AppConfig{}
	if err := cfg.ScanAndValidate(target, "server"); err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}
	printCurrentState(target, "Initial State")

	// =========================================================================
	// PART 3: VIEWS WRITE THROUGH TO THE DOCUMENT
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Editing through a section view...")

	server, err := cfg.GetInstance("server")
	if err != nil {
		log.Fatalf("❌ GetInstance failed: %v", err)
	}
	if err := server.SetInt(9090, "port"); err != nil {
		log.Fatalf("❌ SetInt failed: %v", err)
	}
	log.Printf("✅ View %q set port; root handle reads %d.", server.Name(), cfg.TryInt(0, "server.port"))

	if err := cfg.Store(); err != nil {
		log.Fatalf("❌ Store failed: %v", err)
	}
	log.Println("✅ Stored; comments are preserved:")
	fmt.Print(cfg.Serialize())

	// =========================================================================
	// PART 4: DYNAMIC RELOADING WITH THE WATCHER
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Testing the file watcher...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchOpts := conftree.DefaultWatchOptions()
	watchOpts.Debounce = 100 * time.Millisecond
	if err := cache.Watch(ctx, watchOpts); err != nil {
		log.Fatalf("❌ Watch failed: %v", err)
	}
	defer cache.StopWatching()
	changes := cache.Subscribe()
	log.Println("✅ Watcher is now active.")

	var wg sync.WaitGroup
	wg.Add(1)
	go modifyFileOnDisk(&wg)
	log.Println("   (Modifier goroutine dispatched to change file in 1 second...)")

	select {
	case change := <-changes:
		log.Printf("✅ Watcher detected a change: %s %s", change.Kind, change.Path)

		level, _ := cfg.String("server.log_level")
		if level != "debug" {
			log.Fatalf("❌ VERIFICATION FAILED: Expected log_level 'debug', but got '%s'.", level)
		}
		log.Println("✅ VERIFICATION SUCCESSFUL: In-memory config was updated by the watcher.")

		if err := cfg.Scan(target, "server"); err == nil {
			printCurrentState(target, "Final State (Updated by Watcher)")
		}

	case <-time.After(5 * time.Second):
		log.Fatalf("❌ TEST FAILED: Timed out waiting for watcher notification.")
	}

	wg.Wait()
}

// modifyFileOnDisk simulates an external program changing the config file.
func modifyFileOnDisk(wg *sync.WaitGroup) {
	defer wg.Done()
	time.Sleep(1 * time.Second)
	log.Println("   (Modifier goroutine: now changing file on disk...)")

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		log.Fatalf("❌ Modifier failed to read file: %v", err)
	}
	updated := strings.Replace(string(data), "log_level = info", "log_level = debug", 1)
	if err := os.WriteFile(configFilePath, []byte(updated), 0644); err != nil {
		log.Fatalf("❌ Modifier failed to write file: %v", err)
	}
}

func printCurrentState(cfg *AppConfig, title string) {
	fmt.Println("---------------------------------------------")
	fmt.Printf("  %s\n", title)
	fmt.Println("---------------------------------------------")
	fmt.Printf("  Server Host:      %s\n", cfg.Host)
	fmt.Printf("  Server Port:      %d\n", cfg.Port)
	fmt.Printf("  Server Log Level: %s\n", cfg.LogLevel)
	fmt.Printf("  Timeout:          %s\n", cfg.Timeout)
	fmt.Printf("  Metrics:          %t\n", cfg.Features.Metrics)
	fmt.Printf("  Caching:          %t\n", cfg.Features.Caching)
	fmt.Println("---------------------------------------------")
}
