package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/intern-hub-backend/config"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStore uploads project images to S3 and returns their public URL.
type ImageStore struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
}

// NewImageStore reads IMAGE_BUCKET and IMAGE_PUBLIC_BASE_URL. It returns nil
// when no bucket is configured.
func NewImageStore(ctx context.Context, cfg map[string]string) (*ImageStore, error) {
	bucket := config.GetString(cfg, "IMAGE_BUCKET", "")
	if bucket == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	baseURL := config.GetString(cfg, "IMAGE_PUBLIC_BASE_URL", fmt.Sprintf("https://%s.s3.amazonaws.com", bucket))
	return newImageStore(s3.NewFromConfig(awsCfg), bucket, baseURL), nil
}

func newImageStore(client objectPutter, bucket, publicBaseURL string) *ImageStore {
	return &ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload stores body under a fresh key keeping the extension of filename.
func (s *ImageStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := "projects/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}
