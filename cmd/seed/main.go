package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/TrvKhanh/rag-mobile/internal/config"
	"github.com/TrvKhanh/rag-mobile/internal/model"
	"github.com/TrvKhanh/rag-mobile/internal/repository/implementation"
	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/database"
	"github.com/TrvKhanh/rag-mobile/pkg/embedding"
	"github.com/TrvKhanh/rag-mobile/pkg/retry"
)

// Seeds the passage_embeddings table from a scraped catalog CSV with
// columns: product_id, title, url, price, image_url, topic, content.
func main() {
	csvPath := flag.String("csv", "data/catalog.csv", "path to the catalog CSV")
	reset := flag.Bool("reset", false, "delete existing passages before seeding")
	chunkSize := flag.Int("chunk-size", 1000, "max passage length in runes")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}
	if err := db.AutoMigrate(&model.PassageEmbedding{}); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
	}
	provider = embedding.NewRetryableProvider(provider, retry.DefaultPolicy())

	repo := implementation.NewPassageRepository(db)
	ctx := context.Background()

	if *reset {
		color.Yellow("Deleting existing passages...")
		if err := repo.DeleteAll(ctx); err != nil {
			log.Fatalf("Failed to reset passages: %v", err)
		}
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *csvPath, err)
	}
	defer file.Close()

	normalizer := catalog.NewNormalizer()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 7

	// Header row
	if _, err := reader.Read(); err != nil {
		log.Fatalf("Failed to read CSV header: %v", err)
	}

	var (
		batch    []*model.PassageEmbedding
		rows     int
		passages int
		failed   int
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			color.Red("Skipping malformed row: %v", err)
			failed++
			continue
		}
		rows++

		content := normalizer.CleanText(record[6])
		price := normalizer.NormalizePrice(record[3])

		for _, chunk := range normalizer.ChunkText(content, *chunkSize) {
			res, err := provider.Generate(chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				color.Red("Embedding failed for %s: %v", record[0], err)
				failed++
				continue
			}

			batch = append(batch, &model.PassageEmbedding{
				Id:             uuid.New(),
				Content:        chunk,
				EmbeddingValue: pgvector.NewVector(res.Embedding.Values),
				ProductId:      record[0],
				Title:          record[1],
				Url:            record[2],
				Price:          price,
				ImageUrl:       record[4],
				Topic:          record[5],
			})
			passages++
		}

		if len(batch) >= 100 {
			if err := repo.CreateBulk(ctx, batch); err != nil {
				log.Fatalf("Failed to insert batch: %v", err)
			}
			color.Green("Inserted %d passages (%d products processed)", passages, rows)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := repo.CreateBulk(ctx, batch); err != nil {
			log.Fatalf("Failed to insert final batch: %v", err)
		}
	}

	color.Green("Done: %d products, %d passages seeded, %d failures", rows, passages, failed)
}
