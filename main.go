package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"yttmp3/api"
	"yttmp3/cache"
	"yttmp3/config"
	"yttmp3/convert"
	"yttmp3/events"
	"yttmp3/jobs"
	"yttmp3/metadata"
	"yttmp3/signature"
	"yttmp3/storage"
	"yttmp3/types"
	"yttmp3/youtube"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	workDir, err := os.MkdirTemp("", config.WorkDirPrefix)
	if err != nil {
		log.Fatalf("failed to create work directory: %v", err)
	}

	cookiesFile := os.Getenv("COOKIES_FILE")
	if cookiesFile == "" {
		cookiesFile = "cookies.txt"
	}
	extractor := youtube.NewExtractor(cookiesFile, workDir)

	ctx := context.Background()

	var progress cache.ProgressStore
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		store, err := cache.NewRedisStore(ctx, redisAddr)
		if err != nil {
			log.Fatalf("failed to connect to Redis at %s: %v", redisAddr, err)
		}
		log.Printf("Using Redis progress store at %s", redisAddr)
		progress = store
	} else {
		progress = cache.NewMemoryStore()
	}

	manager := jobs.NewManager(extractor, convert.EncodeMP3, progress, workDir, config.MaxConcurrentConversions)

	var fallback api.MetadataFallback
	if apiKey := os.Getenv("YOUTUBE_API_KEY"); apiKey != "" {
		client, err := metadata.NewClient(ctx, apiKey)
		if err != nil {
			log.Fatalf("failed to create YouTube Data API client: %v", err)
		}
		log.Println("Data API metadata fallback enabled")
		fallback = client
	}

	var signer *signature.Signer
	if secret := os.Getenv("SIGNING_SECRET"); secret != "" {
		signer = signature.New(secret)
		log.Println("Download token signing enabled")
	}

	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		archive, err := storage.NewArchive(ctx, bucket, os.Getenv("AWS_REGION"))
		if err != nil {
			log.Fatalf("failed to create S3 archive: %v", err)
		}
		log.Printf("Archiving conversions to s3://%s", bucket)
		manager.OnComplete(func(job jobs.Job) {
			if job.Status != jobs.StatusCompleted {
				return
			}
			uploadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := archive.StoreMP3(uploadCtx, job.VideoID, job.OutputPath); err != nil {
				log.Printf("Failed to archive job %s: %v", job.ID, err)
			}
		})
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := events.NewProducer(strings.Split(brokers, ","))
		if err != nil {
			log.Fatalf("failed to connect Kafka producer: %v", err)
		}
		defer producer.Close()
		log.Printf("Publishing conversion events to %s", config.ConversionsTopic)
		manager.OnComplete(func(job jobs.Job) {
			event := types.ConversionEvent{
				JobID:       job.ID,
				VideoID:     job.VideoID,
				Title:       job.Title,
				OutputBytes: job.OutputSize,
				Duration:    job.FinishedAt.Sub(job.StartedAt).Seconds(),
				Success:     job.Status == jobs.StatusCompleted,
				Error:       job.LastError,
				FinishedAt:  job.FinishedAt,
			}
			if err := producer.Publish(event); err != nil {
				log.Printf("Failed to publish event for job %s: %v", job.ID, err)
			}
		})
	}

	server := api.NewServer(extractor, fallback, manager, progress, signer)
	r := api.NewRouter(server)

	log.Printf("Starting yttmp3 API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /health")
	log.Println("  POST /api/video-info")
	log.Println("  POST /api/download")
	log.Println("  GET  /api/progress/:id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
