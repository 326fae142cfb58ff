package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"Aurora/internal/backend"
	"Aurora/internal/config"
	"Aurora/internal/core/posts"
)

// seed fills a backend with generated posts so the gallery has
// something to render during development.
func main() {
	configPath := flag.String("config", "aurora.toml", "path to the TOML config file")
	count := flag.Int("count", 20, "number of posts to create")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	faker := gofakeit.New(*seed)
	svc := posts.NewService(backend.NewClient(nil), posts.Config{
		Endpoints: posts.Endpoints{
			List:   cfg.Endpoints.List,
			Get:    cfg.Endpoints.Get,
			Create: cfg.Endpoints.Create,
			Update: cfg.Endpoints.Update,
			Delete: cfg.Endpoints.Delete,
			Upload: cfg.Endpoints.Upload,
		},
		MaxFileMB:     cfg.MaxFileMB,
		MaxImagePX:    cfg.MaxImagePX,
		JPEGQuality:   cfg.JPEGQuality,
		ReadTimeout:   cfg.ReadTimeout(),
		WriteTimeout:  cfg.WriteTimeout(),
		UploadTimeout: cfg.UploadTimeout(),
		ReadRetries:   cfg.ReadRetries,
	})

	ctx := context.Background()
	created := 0
	for i := 0; i < *count; i++ {
		req := posts.CreateRequest{
			Title:   strings.TrimSuffix(faker.Sentence(faker.Number(3, 7)), "."),
			Content: faker.Paragraph(1, faker.Number(2, 5), faker.Number(8, 16), " "),
		}
		post, err := svc.Create(ctx, req)
		if err != nil {
			log.Fatalf("Failed to create post %d/%d: %v", i+1, *count, err)
		}
		created++
		fmt.Printf("created %s  %s\n", post.ID, post.Title)
	}

	fmt.Printf("Seeded %d posts\n", created)
}
