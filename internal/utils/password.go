package utils

import (
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

// Paramètres Argon2id optimisés pour la performance
const (
	Argon2Time    = 1
	Argon2Memory  = 32 * 1024 // 32 MB
	Argon2Threads = 4
	Argon2KeyLen  = 32
	SaltLength    = 12
)

// HashPassword dérive un hash Argon2id du mot de passe avec le salt stocké
// sur l'utilisateur. Le salt est conservé à part, le hash encodé en base64.
func HashPassword(password, salt string) string {
	hash := argon2.IDKey([]byte(password), []byte(salt), Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)
	return base64.RawStdEncoding.EncodeToString(hash)
}

// VerifyPassword recalcule le hash et compare en temps constant.
func VerifyPassword(password, salt, encodedHash string) bool {
	expected, err := base64.RawStdEncoding.DecodeString(encodedHash)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), []byte(salt), Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)
	return subtle.ConstantTimeCompare(hash, expected) == 1
}
