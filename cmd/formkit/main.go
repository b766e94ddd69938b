// Command formkit is the CLI for the form toolkit: it serves the
// builder preview server and generates embed code from definition
// files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wizardformz/formkit/internal/config"
	"github.com/wizardformz/formkit/internal/server"
	"github.com/wizardformz/formkit/internal/store"
	"github.com/wizardformz/formkit/pkg/conform"
	"github.com/wizardformz/formkit/pkg/definition"
	"github.com/wizardformz/formkit/pkg/embedjs"
	"github.com/wizardformz/formkit/pkg/logging"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	command := os.Args[1]

	switch command {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "embed":
		if len(os.Args) < 3 {
			fmt.Println("Error: definition file required")
			fmt.Println("Usage: formkit embed <definition.json>")
			os.Exit(1)
		}
		if err := runGenerate(os.Args[2], false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "fragment":
		if len(os.Args) < 3 {
			fmt.Println("Error: definition file required")
			fmt.Println("Usage: formkit fragment <definition.json>")
			os.Exit(1)
		}
		if err := runGenerate(os.Args[2], true); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "verify":
		if len(os.Args) < 3 {
			fmt.Println("Error: definition file required")
			fmt.Println("Usage: formkit verify <definition.json>")
			os.Exit(1)
		}
		if err := runVerify(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version", "-v", "--version":
		fmt.Printf("formkit v%s\n", version)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServe(args []string) error {
	cfg := config.Default()
	if len(args) > 0 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return err
		}
		cfg = loaded
	}

	opts := []logging.Option{}
	if cfg.LogJSON {
		opts = append(opts, logging.WithJSON())
	}
	if cfg.Debug {
		opts = append(opts, logging.WithLevel(logging.LevelDebug))
	}
	logger := logging.New(opts...)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(st, logger).Run(ctx, cfg.Addr)
}

func runGenerate(path string, fragment bool) error {
	def, err := loadDefinition(path)
	if err != nil {
		return err
	}

	gen := embedjs.New(def)
	var out string
	if fragment {
		out, err = gen.PreviewFragment()
	} else {
		out, err = gen.FullEmbed()
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runVerify(path string) error {
	def, err := loadDefinition(path)
	if err != nil {
		return err
	}
	if err := conform.Verify(def); err != nil {
		return err
	}
	fmt.Printf("OK: generated script matches the engine for %q\n", def.Title)
	return nil
}

func loadDefinition(path string) (*definition.FormDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	def, err := definition.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return def, nil
}

func printUsage() {
	fmt.Printf(`formkit v%s

Usage: formkit <command> [arguments]

Commands:
  serve [config.json]       Start the builder preview server
  embed <definition.json>   Print the full embed snippet for a form
  fragment <definition.json>  Print the script-only preview fragment
  verify <definition.json>  Check the generated script against the engine
  version                   Show version
  help                      Show this help

Examples:
  formkit serve formkit.json
  formkit embed contact.json > embed.html
  formkit verify contact.json
`, version)
}
