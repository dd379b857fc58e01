package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/abelbrown/duo/internal/config"
)

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	initFile := fs.Bool("init", false, "Write the default config file if none exists")
	fs.Parse(os.Args[1:])

	path := config.ConfigPath()

	if *initFile {
		if _, err := os.Stat(path); err == nil {
			log.Fatalf("%s already exists", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			log.Fatalf("write config: %v", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	cfg := loadConfig()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("encode config: %v", err)
	}
	fmt.Printf("# %s (with DUO_* overrides)\n%s\n", path, data)
}
