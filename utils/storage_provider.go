package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

func localStorageDir() string {
	dir := strings.TrimSpace(os.Getenv("STORAGE_LOCAL_DIR"))
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// StoreAttachment persists already-processed attachment bytes (receipt photos,
// transfer proofs) and returns the opaque object key the models persist.
// Image normalization/compression happens upstream; this layer only stores.
func StoreAttachment(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	if strings.TrimSpace(objectKey) == "" {
		objectKey = GenerateUniqueFilename()
	}
	switch GetStorageProvider() {
	case StorageProviderGCS:
		if err := UploadBytesToGCS(ctx, objectKey, data, contentType); err != nil {
			return "", err
		}
		return objectKey, nil
	case StorageProviderLocal:
		path := filepath.Join(localStorageDir(), filepath.FromSlash(objectKey))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", err
		}
		return objectKey, nil
	default:
		return "", fmt.Errorf("unknown storage provider %q", GetStorageProvider())
	}
}

func DeleteAttachment(ctx context.Context, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}
	switch GetStorageProvider() {
	case StorageProviderGCS:
		return DeleteObjectFromGCS(ctx, objectKey)
	case StorageProviderLocal:
		err := os.Remove(filepath.Join(localStorageDir(), filepath.FromSlash(objectKey)))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown storage provider %q", GetStorageProvider())
	}
}

func AttachmentExists(ctx context.Context, objectKey string) (bool, error) {
	if strings.TrimSpace(objectKey) == "" {
		return false, nil
	}
	switch GetStorageProvider() {
	case StorageProviderGCS:
		return ObjectExistsInGCS(ctx, objectKey)
	case StorageProviderLocal:
		_, err := os.Stat(filepath.Join(localStorageDir(), filepath.FromSlash(objectKey)))
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("unknown storage provider %q", GetStorageProvider())
	}
}
