package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"github.com/pulseprep/ecg_api/dto"
)

// MediaService signs time-limited URLs for step media (ECG strip images,
// walkthrough videos, audio drills) stored in a MinIO bucket.
type MediaService struct {
	appContext.DefaultService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
	urlExpiry  time.Duration
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "ecg-media"
	}

	svc.urlExpiry = 15 * time.Minute

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("Media service started with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *MediaService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created bucket: %s", svc.bucketName)
	}

	return nil
}

// SignedURL produces a presigned GET URL for one object key.
func (svc *MediaService) SignedURL(key string) (string, error) {
	if svc.client == nil {
		return "", fmt.Errorf("media client not initialized")
	}

	presigned, err := svc.client.PresignedGetObject(context.Background(), svc.bucketName, key, svc.urlExpiry, url.Values{})
	if err != nil {
		return "", err
	}

	return presigned.String(), nil
}

func (svc *MediaService) GetMediaURL(req dto.MediaURLRequest) (*dto.MediaURLResponse, error) {
	signed, err := svc.SignedURL(req.Key)
	if err != nil {
		return nil, err
	}

	return &dto.MediaURLResponse{
		Key:       req.Key,
		URL:       signed,
		ExpiresIn: int64(svc.urlExpiry.Seconds()),
	}, nil
}
