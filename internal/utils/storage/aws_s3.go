package storage

import (
	"PantryPal/domain"
	"PantryPal/internal/utils"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

const MaxImageSize = 10 << 20

var AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	S3Config struct {
		Bucket    string
		Region    string
		AccessKey string
		SecretKey string
		Endpoint  string
	}

	objectStore interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	awsS3 struct {
		client objectStore
		cfg    S3Config
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
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is not set")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &awsS3{client: client, cfg: cfg}, nil
}

func (a *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	data, mime, err := ReadImage(file, MaxImageSize, allowed...)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), fileName, mime.Extension())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mime.String()),
	})
	if err != nil {
		return "", domain.Upstream("s3 put object", err)
	}
	return objectKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return domain.Upstream("s3 delete object", err)
	}
	return nil
}

func (a *awsS3) baseURL() string {
	if a.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/", strings.TrimRight(a.cfg.Endpoint, "/"), a.cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.cfg.Bucket, a.cfg.Region)
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.baseURL() + objectKey
}

// GetObjectKeyFromLink returns "" for links that do not point into this bucket.
func (a *awsS3) GetObjectKeyFromLink(link string) string {
	base := a.baseURL()
	if !strings.HasPrefix(link, base) {
		return ""
	}
	key, err := url.PathUnescape(strings.TrimPrefix(link, base))
	if err != nil {
		return ""
	}
	return key
}

// ReadImage loads an uploaded file and checks its sniffed content type.
func ReadImage(file *multipart.FileHeader, maxBytes int64, allowed ...string) ([]byte, *mimetype.MIME, error) {
	if file == nil {
		return nil, nil, domain.Invalid("file is required")
	}
	if file.Size > maxBytes {
		return nil, nil, domain.Invalid(fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}

	f, err := file.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, nil, domain.Invalid(fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}

	mime := mimetype.Detect(data)
	if len(allowed) > 0 && !mimetype.EqualsAny(mime.String(), allowed...) {
		return nil, nil, domain.ErrInvalidImageFormat
	}
	return data, mime, nil
}
