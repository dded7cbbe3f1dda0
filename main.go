package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/buzzword-bazaar/catalog/app/buzzwords"
	"github.com/buzzword-bazaar/catalog/app/categories"
	"github.com/buzzword-bazaar/catalog/config"
	"github.com/buzzword-bazaar/catalog/database"
	"github.com/buzzword-bazaar/catalog/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	categoriesRepo := models.NewCategoriesRepository(db)
	buzzwordsRepo := models.NewBuzzwordsRepository(db, cfg.AdminPassword)

	categoryHandler := categories.NewCategoryHandler(categoriesRepo)
	buzzwordHandler := buzzwords.NewBuzzwordHandler(buzzwordsRepo, categoriesRepo)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /catalog", buzzwordHandler.HandleIndex)
	mux.HandleFunc("GET /catalog/buzzwords", buzzwordHandler.HandleList)
	mux.HandleFunc("GET /catalog/buzzword/create", buzzwordHandler.HandleCreateForm)
	mux.HandleFunc("POST /catalog/buzzword/create", buzzwordHandler.HandleCreate)
	mux.HandleFunc("GET /catalog/buzzword/{id}", buzzwordHandler.HandleDetail)
	mux.HandleFunc("GET /catalog/buzzword/{id}/update", buzzwordHandler.HandleUpdateForm)
	mux.HandleFunc("POST /catalog/buzzword/{id}/update", buzzwordHandler.HandleUpdate)
	mux.HandleFunc("GET /catalog/buzzword/{id}/delete", buzzwordHandler.HandleDeleteForm)
	mux.HandleFunc("POST /catalog/buzzword/{id}/delete", buzzwordHandler.HandleDelete)

	mux.HandleFunc("GET /catalog/categories", categoryHandler.HandleList)
	mux.HandleFunc("GET /catalog/category/create", categoryHandler.HandleCreateForm)
	mux.HandleFunc("POST /catalog/category/create", categoryHandler.HandleCreate)
	mux.HandleFunc("GET /catalog/category/{id}", categoryHandler.HandleDetail)
	mux.HandleFunc("GET /catalog/category/{id}/update", categoryHandler.HandleUpdateForm)
	mux.HandleFunc("POST /catalog/category/{id}/update", categoryHandler.HandleUpdate)
	mux.HandleFunc("GET /catalog/category/{id}/delete", categoryHandler.HandleDeleteForm)
	mux.HandleFunc("POST /catalog/category/{id}/delete", categoryHandler.HandleDelete)

	slog.Info("catalog service listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal(err)
	}
}
