package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Local dev convenience; CI environments export variables directly.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("shorts: %v", err)
	}
}
