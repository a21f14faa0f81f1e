package main

import (
	"flag"
	"log"

	"asm6502/internal/config"
	"asm6502/internal/tui"
)

func main() {
	cfgPath := flag.String("config", "", "config file (.toml or .yaml)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := tui.Run(cfg.AssemblerOptions()); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}
