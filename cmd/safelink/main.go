package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bryanwahyu/safelink/internal/config"
)

const description = "Scan Link in Safe Mode"

func usage() {
	fmt.Fprintf(os.Stderr, `safelink: %s

Usage:
  safelink serve [-config config.yaml]
  safelink scan  [-config config.yaml] [-analysis] [-technical] <url>
  safelink view  [-config config.yaml] [-analysis] [-technical]

The view command reads the stored result, so it only sees scans from other
processes when slot.driver is mysql or postgres.
`, description)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(args)
	case "scan":
		err = runScan(args)
	case "view":
		err = runView(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s error: %v", os.Args[1], err)
	}
}

// loadConfig registers -config on fs and loads it after parsing.
// CONFIG_PATH wins over the default path but not over the flag.
func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, error) {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	fs.StringVar(&path, "config", path, "path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return cfg, nil
}
