package storage

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/utils"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const PresignExpiry = 15 * time.Minute

var AllowImage = []string{".jpg", ".jpeg", ".png", ".webp"}

var imageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, key string) error
		PresignUpload(ctx context.Context, folder string, contentType string) (PresignedUpload, error)
		GetPublicLinkKey(key string) string
		GetObjectKeyFromLink(link string) string
	}

	S3Config struct {
		Bucket    string
		Region    string
		AccessKey string
		SecretKey string
		Endpoint  string
	}

	PresignedUpload struct {
		Key       string
		URL       string
		ExpiresAt time.Time
	}

	awsS3 struct {
		cfg     S3Config
		client  *s3.Client
		presign *s3.PresignClient
	}
)

func LoadS3Config() S3Config {
	return S3Config{
		Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
		Region:    utils.GetConfig("AWS_S3_REGION"),
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
		Endpoint:  utils.GetConfig("AWS_S3_ENDPOINT"),
	}
}

func NewAwsS3(ctx context.Context, cfg S3Config) (AwsS3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &awsS3{
		cfg:     cfg,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (a *awsS3) UploadFile(ctx context.Context, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(allowed) > 0 && !isAllowed(ext, allowed) {
		return "", domain.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := objectKey(folder, ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return key, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(key),
	})
	return err
}

func (a *awsS3) PresignUpload(ctx context.Context, folder string, contentType string) (PresignedUpload, error) {
	ext, ok := imageContentTypes[contentType]
	if !ok {
		return PresignedUpload{}, domain.ErrInvalidFileType
	}

	key := objectKey(folder, ext)
	req, err := a.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign put object: %w", err)
	}

	return PresignedUpload{
		Key:       key,
		URL:       req.URL,
		ExpiresAt: time.Now().Add(PresignExpiry),
	}, nil
}

func (a *awsS3) GetPublicLinkKey(key string) string {
	if key == "" {
		return ""
	}
	return a.baseURL() + "/" + key
}

// GetObjectKeyFromLink is the inverse of GetPublicLinkKey. Links that do not
// point into the bucket yield an empty key.
func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := a.baseURL() + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

func (a *awsS3) baseURL() string {
	if a.cfg.Endpoint != "" {
		return strings.TrimRight(a.cfg.Endpoint, "/") + "/" + a.cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", a.cfg.Bucket, a.cfg.Region)
}

func objectKey(folder string, ext string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%s%s", folder, d.Year(), d.Month(), uuid.New(), ext)
}

func isAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
