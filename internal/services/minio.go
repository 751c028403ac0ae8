package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ImageUploader stocke les images de variants dans MinIO.
type ImageUploader struct {
	client *minio.Client
	bucket string
}

func NewImageUploader(client *minio.Client, bucket string) *ImageUploader {
	return &ImageUploader{client: client, bucket: bucket}
}

// UploadImage pousse le fichier et retourne l'URL publique à stocker dans
// images[] du variant. Le nom d'objet est un UUID pour éviter les collisions.
func (u *ImageUploader) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if u.client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := uuid.NewString() + filepath.Ext(file.Filename)

	_, err = u.client.PutObject(ctx, u.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), u.bucket, objectName), nil
}
