package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"game_market_back_end/internal/cache"
	"game_market_back_end/internal/config"
	"game_market_back_end/internal/database"
	"game_market_back_end/internal/handlers/admin"
	"game_market_back_end/internal/handlers/cart"
	"game_market_back_end/internal/handlers/order"
	"game_market_back_end/internal/handlers/product"
	"game_market_back_end/internal/handlers/user"
	"game_market_back_end/internal/middleware"
	"game_market_back_end/internal/payment"
	"game_market_back_end/internal/routes"
	"game_market_back_end/internal/services"
	"game_market_back_end/internal/store"
	"game_market_back_end/internal/utils"
)

// Plateformes de référence, insérées au premier démarrage.
var platformFixtures = []string{
	"PlayStation 5",
	"Xbox Series X",
	"Nintendo Switch",
	"PC",
}

func main() {
	config.Load()

	stripe.Key = config.MustGet("STRIPE_SECRET_KEY")
	log.Println("✅ Stripe initialisé")

	dbs := database.Connect()
	stores := store.New(dbs.Mongo)

	if err := stores.Platforms.Seed(context.Background(), platformFixtures); err != nil {
		log.Fatal("❌ Erreur d'insertion des plateformes:", err)
	}

	mailer := utils.NewMailer()
	authCache := cache.NewAuthCache(dbs.Redis, stores.Users)
	limiter := middleware.NewRateLimiter(dbs.Redis)
	indexer := services.NewProductIndexer(dbs.Elastic)
	uploader := services.NewImageUploader(dbs.MinIO, config.Get("MINIO_BUCKET", "game-market"))
	charger := payment.StripeCharger{}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(config.Get("CORS_ORIGINS", "http://localhost:5173"), ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.Register(r, routes.Deps{
		Auth:     middleware.AuthRequired(authCache),
		Limiter:  limiter,
		Users:    user.NewHandler(stores.Users, stores.ResetPasswords, mailer, authCache),
		Products: product.NewHandler(stores.Products, stores.Platforms, indexer, uploader),
		Carts:    cart.NewHandler(stores.Carts, stores.Products),
		Orders:   order.NewHandler(stores.Orders, stores.Carts, stores.Products, stores.Users, charger, mailer),
		Admin:    admin.NewHandler(stores.Users, stores.Products, stores.Orders),
	})

	port := config.Get("PORT", "8080")
	log.Println("🚀 Serveur Game Market lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Erreur serveur:", err)
	}
}
