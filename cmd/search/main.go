package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"bookvault/internal/config"
	"bookvault/internal/storage"

	_ "bookvault/internal/storage/all"
)

const maxHits = 10

// main is an interactive keyword search over the loaded catalog. Each input
// line is matched as a substring against book titles; the best-rated hits
// print first. One-shot mode: pass the keyword as an argument.
func main() {
	var (
		dsn   string
		store string
	)
	flag.StringVar(&dsn, "db", config.DefaultDSN, "store DSN (file path for sqlite, URL for postgres)")
	flag.StringVar(&store, "store", config.DefaultStore, "storage backend (sqlite, postgres)")
	flag.Parse()

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: store, DSN: dsn})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer repo.Close()

	if flag.NArg() > 0 {
		search(ctx, repo, strings.Join(flag.Args(), " "))
		return
	}

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("search> ")
		if !sc.Scan() {
			fmt.Println()
			return
		}
		keyword := strings.TrimSpace(sc.Text())
		if keyword == "" {
			continue
		}
		if keyword == "quit" || keyword == "exit" {
			return
		}
		search(ctx, repo, keyword)
	}
}

func search(ctx context.Context, repo storage.Repository, keyword string) {
	hits, err := repo.SearchTitles(ctx, keyword, maxHits)
	if err != nil {
		log.Printf("search: %v", err)
		return
	}
	if len(hits) == 0 {
		fmt.Printf("no titles matching %q\n", keyword)
		return
	}
	for _, h := range hits {
		if h.AvgRating.Valid {
			fmt.Printf("%5.2f  %s\n", h.AvgRating.Float64, h.Title)
		} else {
			fmt.Printf("    -  %s\n", h.Title)
		}
	}
}
