// Command qrgen regenerates the QR code image of every advisor and stores its URL.
package main

import (
	"context"
	"os"
	"time"

	"qr-feedback-backend/internal/config"
	"qr-feedback-backend/internal/database"
	"qr-feedback-backend/internal/logging"
	"qr-feedback-backend/internal/qrcode"
	"qr-feedback-backend/internal/repository"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.NewProduction(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	client, err := database.Connect(cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Error(ctx, "failed to connect to MongoDB", zap.Error(err))
		return 1
	}
	defer client.Disconnect(context.Background())

	generator, err := qrcode.NewFileGenerator(cfg.QRCodeDir, cfg.BaseURL)
	if err != nil {
		logger.Error(ctx, "cannot prepare qr code directory", zap.Error(err))
		return 1
	}

	repo := repository.NewAdvisorRepo()
	advisors, err := repo.ListAll(ctx)
	if err != nil {
		logger.Error(ctx, "failed to list advisors", zap.Error(err))
		return 1
	}
	logger.Info(ctx, "regenerating qr codes", zap.Int("advisors", len(advisors)))

	for _, advisor := range advisors {
		url, err := generator.Generate(advisor.ID.Hex())
		if err != nil {
			logger.Error(ctx, "failed to generate qr code", zap.String("advisor_id", advisor.ID.Hex()), zap.Error(err))
			return 1
		}
		if _, err := repo.SetQRCode(ctx, advisor.ID, url); err != nil {
			logger.Error(ctx, "failed to store qr code", zap.String("advisor_id", advisor.ID.Hex()), zap.Error(err))
			return 1
		}
		logger.Info(ctx, "qr code updated", zap.String("name", advisor.Name), zap.String("url", url))
	}

	logger.Info(ctx, "all advisor qr codes regenerated")
	return 0
}
