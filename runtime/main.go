package main

import (
	"github.com/pulseprep/ecg_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title PulsePrep ECG API
// @version 1.0
// @description Lesson content and progress tracking API for ECG interpretation training
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.RedisService{},
		&services.JWTService{},
		&services.AuthService{},
		&services.EventService{},
		&services.ContentLoaderService{},
		&services.MediaService{},
		&services.ContentService{},
		&services.ProgressService{},
		&services.RateLimitService{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
