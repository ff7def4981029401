package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/parkvision-mcp/internal/config"
	"github.com/ironsheep/parkvision-mcp/internal/detection"
	"github.com/ironsheep/parkvision-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("parkvision-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("parkvision-mcp - MCP server for parking marker detection")
			fmt.Println()
			fmt.Println("Usage: parkvision-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PARKVISION_LOG_LEVEL=debug    Enable debug logging")
			fmt.Printf("  PARKVISION_CONFIG=<path>      Configuration file (default %s)\n", config.DefaultPath)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("PARKVISION_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("ParkVision MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		detection.SetLogger(log.Printf)
	}

	cfgPath := config.PathFromEnv()
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if err := cfg.Validate(); err != nil && logLevel == "debug" {
		log.Printf("Configuration %s is incomplete; pipeline tools will fail until calibrated:\n%v", cfgPath, err)
	}

	srv := server.New(cfg, cfgPath)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
