package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	config "github.com/maheshrc27/socialbridge/configs"
	"github.com/maheshrc27/socialbridge/internal/apperrors"
)

// ObjectAPI is the subset of the S3 client used against R2.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func NewR2Client(ctx context.Context, cfg config.R2) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	}), nil
}

// R2Store keeps user media in an R2 bucket. Media under the bucket's public
// URL is read straight from the bucket; anything else goes to fallback.
type R2Store struct {
	client    ObjectAPI
	bucket    string
	publicURL string
	fallback  Fetcher
}

func NewR2Store(client ObjectAPI, cfg config.R2, fallback Fetcher) *R2Store {
	return &R2Store{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		fallback:  fallback,
	}
}

// Upload stores data under a random key and returns its public URL.
func (s *R2Store) Upload(ctx context.Context, data []byte) (string, Kind, error) {
	fileType, err := filetype.Match(data)
	if err != nil || fileType == types.Unknown {
		return "", KindNone, &apperrors.ValidationError{Field: "file", Message: "unsupported file type"}
	}
	if _, ok := allowedTypes[fileType.Extension]; !ok {
		return "", KindNone, &apperrors.ValidationError{Field: "file", Message: fmt.Sprintf("file type %s is not allowed", fileType.Extension)}
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", KindNone, fmt.Errorf("generate media key: %w", err)
	}
	key := id + "." + fileType.Extension

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(fileType.MIME.Value),
	})
	if err != nil {
		return "", KindNone, fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicURL + "/" + key, KindOfBytes(data), nil
}

func (s *R2Store) Fetch(ctx context.Context, rawURL string) (*Object, error) {
	key, ok := s.keyOf(rawURL)
	if !ok {
		if s.fallback == nil {
			return nil, &apperrors.ValidationError{Field: "media_url", Message: "media is not stored in the bucket"}
		}
		return s.fallback.Fetch(ctx, rawURL)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &apperrors.TransientError{Err: fmt.Errorf("get %s: %w", key, err)}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &apperrors.TransientError{Err: fmt.Errorf("read %s: %w", key, err)}
	}
	return newObject(data, aws.ToString(out.ContentType), rawURL), nil
}

func (s *R2Store) keyOf(rawURL string) (string, bool) {
	if s.publicURL == "" || !strings.HasPrefix(rawURL, s.publicURL+"/") {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, s.publicURL+"/")
	return key, key != ""
}
