package main

import (
	"log"
	"net/http"

	"postviewer/internal/config"
	"postviewer/internal/gql"
	"postviewer/internal/posts"
	"postviewer/internal/web"
)

func main() {
	cfg := config.Load()

	graphqlClient := gql.NewClient(cfg)
	postService := posts.NewService(graphqlClient)

	handler, err := web.NewHandler(cfg, postService)
	if err != nil {
		log.Fatalf("handler setup failed: %v", err)
	}

	log.Printf("post viewer listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
