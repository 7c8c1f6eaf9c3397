package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/log"
)

// maxImageBytes bounds a decoded recipe image
const maxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore persists recipe images and returns their public URL
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// StoredImage is an uploaded image: its public URL and its key in the store
type StoredImage struct {
	URL string
	Key string
}

// DecodedImage is the payload of a data URI
type DecodedImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeDataURI parses "data:image/png;base64,...". The declared type must
// be an image type and must agree with the sniffed content.
func DecodeDataURI(uri string) (*DecodedImage, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}
	declared := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext, ok := imageExtensions[declared]
	if !ok {
		return nil, ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 || len(data) > maxImageBytes {
		return nil, ErrInvalidImage
	}
	if sniffed := http.DetectContentType(data); sniffed != declared {
		return nil, ErrInvalidImage
	}
	return &DecodedImage{Data: data, ContentType: declared, Extension: ext}, nil
}

// ImageService turns uploaded data URIs into stored image URLs
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// NewImageStore picks the storage driver from configuration
func NewImageStore(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.ImageStorage {
	case "s3":
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		return NewS3ImageStore(s3Cfg), nil
	case "local", "":
		return NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL), nil
	default:
		return nil, fmt.Errorf("unknown image storage %q", cfg.ImageStorage)
	}
}

// Upload stores a data URI under recipes/
func (s *ImageService) Upload(ctx context.Context, dataURI string) (*StoredImage, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}
	key := path.Join("recipes", uuid.NewString()+img.Extension)
	url, err := s.store.Save(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	log.Debug(ctx, "stored recipe image", "key", key, "bytes", len(img.Data))
	return &StoredImage{URL: url, Key: key}, nil
}

// Discard removes an image whose recipe write did not commit. Failures are
// logged only; the caller already has an error to report.
func (s *ImageService) Discard(ctx context.Context, img *StoredImage) {
	if img == nil {
		return
	}
	if err := s.store.Delete(ctx, img.Key); err != nil {
		log.Warn(ctx, "failed to discard orphaned image", "key", img.Key, "error", err)
	}
}

// LocalImageStore writes images below a directory served at baseURL
type LocalImageStore struct {
	root    string
	baseURL string
}

func NewLocalImageStore(root, baseURL string) *LocalImageStore {
	return &LocalImageStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalImageStore) Root() string {
	return s.root
}

func (s *LocalImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// S3ImageStore uploads images to a bucket with public-read URLs
type S3ImageStore struct {
	cfg *config.S3Config
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{cfg: cfg}
}

func (s *S3ImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.BucketName, key), nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from S3: %w", err)
	}
	return nil
}
