package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	TokenLength = 16
	SKULength   = 8
)

const alphanum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString génère une chaîne alphanumérique aléatoire de n caractères.
func RandomString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(alphanum)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand ne doit jamais échouer sur un système sain
			panic(err)
		}
		b[i] = alphanum[idx.Int64()]
	}
	return string(b)
}

// GenerateToken produit un token opaque (auth, confirmation, reset).
func GenerateToken() string {
	return RandomString(TokenLength)
}

// GenerateSalt produit le salt stocké avec le hash du mot de passe.
func GenerateSalt() string {
	return RandomString(SaltLength)
}

// GenerateSKU produit un SKU de 8 caractères pour un nouveau variant.
func GenerateSKU() string {
	return RandomString(SKULength)
}
