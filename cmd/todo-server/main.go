package main

import (
	"fmt"
	"log"
	"net/http"

	"todo-tracker-backend/internal/config"
	"todo-tracker-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	fmt.Printf("todo-tracker server listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
