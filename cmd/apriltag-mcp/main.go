package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/apriltag-mcp/internal/config"
	"github.com/ironsheep/apriltag-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("apriltag-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "detect":
			os.Exit(runDetect(os.Args[2:], os.Stdout, os.Stderr))
		case "family":
			os.Exit(runFamily(os.Args[2:], os.Stdout, os.Stderr))
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("APRILTAG_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("AprilTag MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg, path, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if debug {
		if path == "" {
			log.Printf("No config file found, using defaults (family %s)", cfg.Family)
		} else {
			log.Printf("Loaded config from %s (family %s)", path, cfg.Family)
		}
	}

	server.Version = Version
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	if debug {
		srv.SetLogger(log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds))
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("apriltag-mcp - MCP server for fiducial tag detection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  apriltag-mcp [options]              Run the MCP server on stdin/stdout")
	fmt.Println("  apriltag-mcp detect [flags] image...  Detect tags and print JSON")
	fmt.Println("  apriltag-mcp family [flags] [name...] Print family codebooks as YAML")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Run 'apriltag-mcp detect -h' or 'apriltag-mcp family -h' for subcommand flags.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  APRILTAG_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  APRILTAG_MCP_CONFIG=<path>      Config file location")
	fmt.Println()
	fmt.Println("Without APRILTAG_MCP_CONFIG the first of ./apriltag-mcp.yaml,")
	fmt.Println("$XDG_CONFIG_HOME/apriltag-mcp/config.yaml and ~/.config/apriltag-mcp/config.yaml")
	fmt.Println("that exists is used.")
	fmt.Println()
	fmt.Println("The server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
