package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Get retourne une variable d'environnement avec une valeur par défaut.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustGet arrête le serveur si la variable est absente (erreur de démarrage fatale).
func MustGet(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("❌ Variable d'environnement manquante : %s", key)
	}
	return v
}
