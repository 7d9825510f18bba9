package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"contenthub/app/config"
	"contenthub/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to a subcommand.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("contenthub version %s\n", CliVersion)
	case "serve":
		serve()
	case "db":
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error: failed to load configuration: %v\n", err)
			exit(1)
			return
		}
		if code := service.HandleCommand(cfg, os.Args[2:]); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: contenthub <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the content API server (configured from .env and the environment).
  db <command>                   Maintain the Badger store: clean, init, backup, restore <file>, stats.
`
	fmt.Println(helpText)
}

// serve loads and validates the configuration, then runs the server until
// it is interrupted.
func serve() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Printf("Error: invalid configuration: %v\n", err)
		exit(1)
		return
	}
	if err := service.RunAppServer(context.Background(), cfg); err != nil {
		log.Printf("Server error: %v", err)
		exit(1)
	}
}
