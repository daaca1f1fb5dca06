package main

import (
	"log"

	"trade-journal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("trade-journal: %v", err)
	}
}
