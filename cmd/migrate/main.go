package main

import (
	"log"

	"confman/internal/app/bootstrap"
)

func main() {
	if err := bootstrap.Migrate(); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	log.Println("review workflow schema is up to date")
}
