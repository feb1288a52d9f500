package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/advisord"
)

// #region main

func main() {
	addr := flag.String("addr", envOr("ADVISORD_ADDR", ":5000"), "listen address")
	dbPath := flag.String("db", envOr("ADVISORD_DB", "advisord.db"), "path to the product database")
	seed := flag.String("seed", "", "JSON file of products to import before serving")
	limit := flag.Int("limit", 5, "max recommendations per response")
	flag.Parse()

	store, err := advisord.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("[ADVISORD] open store: %v", err)
	}
	defer store.Close()

	if *seed != "" {
		f, err := os.Open(*seed)
		if err != nil {
			log.Fatalf("[ADVISORD] open seed file: %v", err)
		}
		n, err := store.ImportJSON(f)
		f.Close()
		if err != nil {
			log.Fatalf("[ADVISORD] import seed: %v", err)
		}
		log.Printf("[ADVISORD] imported %d products from %s", n, *seed)
	}

	srv := advisord.NewServer(store, advisord.NewEngine(*limit))

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("[ADVISORD] listening on %s (db=%s)", *addr, *dbPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[ADVISORD] server: %v", err)
	}
}

// #endregion main

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
