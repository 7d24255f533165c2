package main

import (
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"resume-screener/infrastructure"
	"resume-screener/interfaces"
	"resume-screener/screening"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Optional submission archive
	db, err := infrastructure.NewMySQLConnection()
	if err != nil {
		log.Fatalf("failed to open submission archive: %v", err)
	}
	if db != nil {
		log.Println("✅ Connected to MySQL submission archive")
	}

	store := infrastructure.NewInMemoryJobStore()
	extractor := infrastructure.NewTextExtractor(log)
	model := infrastructure.NewOllamaClient()

	workerLimit := int64(screening.DefaultWorkerLimit)
	if v := os.Getenv("WORKER_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			workerLimit = n
		}
	}
	orch := screening.NewOrchestrator(store, extractor, model, workerLimit, log)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// Setup Gin router
	router := gin.Default()
	interfaces.NewHTTPHandler(router, orch, store, extractor, db, uploadDir, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
