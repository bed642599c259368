package main

import (
	"context"
	"log"

	"worldmandia-web/cmd"
)

func main() {
	if err := cmd.RootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("worldmandia-web: %v", err)
	}
}
