package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/logger"
	"github.com/stemsi/school-registry/internal/model"
	"github.com/stemsi/school-registry/internal/repository"
	"github.com/stemsi/school-registry/internal/service"
	"github.com/stemsi/school-registry/internal/validator"
)

var seeds = []model.SchoolInput{
	{SchoolName: "Oak High", Address: "1 Elm St", City: "Springfield", Email: "office@oakhigh.example"},
	{SchoolName: "Maple Elementary", Address: "42 Birch Ave", City: "Shelbyville", Email: "hello@maple.example"},
	{SchoolName: "Cedar Ridge Academy", Address: "7 Ridge Rd", City: "Ogdenville", Email: "admissions@cedarridge.example"},
	{SchoolName: "Willow Creek Middle", Address: "300 Creek Ln", City: "North Haverbrook", Email: "info@willowcreek.example"},
	{SchoolName: "Pine Valley High", Address: "15 Valley Dr", City: "Capital City", Email: "contact@pinevalley.example"},
}

func main() {
	var imageURL string
	flag.StringVar(&imageURL, "image-url", "", "Image URL stored on every seeded school")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	repo, closeStore, err := repository.Open(ctx, cfg, httpClient, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer closeStore()

	schoolService := service.NewSchoolService(repo, cfg.StoreBackend, log)

	fmt.Printf("=== Seeding %d Schools (%s) ===\n", len(seeds), cfg.StoreBackend)

	created := 0
	for _, in := range seeds {
		in.Image = &model.ImageFile{Filename: "seed.jpg", ContentType: "image/jpeg"}
		rec, fields := validator.ValidateSchool(in)
		if fields != nil {
			log.Error().Interface("fields", fields).Str("school", in.SchoolName).Msg("Seed record is invalid")
			continue
		}

		school := &model.School{
			SchoolName: rec.SchoolName,
			Address:    rec.Address,
			City:       rec.City,
			Email:      rec.Email,
			ImageURL:   imageURL,
		}
		if err := schoolService.Insert(ctx, school); err != nil {
			log.Error().Err(err).Str("school", in.SchoolName).Msg("Failed to seed school")
			continue
		}
		created++
		fmt.Printf("Created %-24s id=%d\n", school.SchoolName, school.ID)
	}

	fmt.Printf("Done. %d/%d schools created.\n", created, len(seeds))
}
