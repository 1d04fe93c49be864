// Package assets uploads post media to object storage and hands back a
// publicly resolvable URL. Works against AWS S3 or MinIO (custom endpoint
// with path-style addressing).
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/config"
)

type Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewStore builds the S3 client. Explicit keys take precedence (MinIO,
// CI); otherwise the default credential chain applies (IAM role, env).
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	var awsCfg aws.Config
	var err error

	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.S3AccessKey,
				cfg.S3SecretKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		if cfg.S3UsePathStyle {
			o.UsePathStyle = true
		}
	})

	publicBase := cfg.S3PublicBase
	if publicBase == "" {
		if cfg.S3Endpoint != "" {
			publicBase = strings.TrimSuffix(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
		}
	}

	return &Store{
		client:     client,
		bucket:     cfg.S3Bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// Upload stores one media blob under a workspace-scoped key and returns its
// public URL. The key embeds a fresh UUID so uploads never collide.
func (s *Store) Upload(ctx context.Context, workspaceID uuid.UUID, filename, contentType string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	key := path.Join(
		"media",
		workspaceID.String(),
		time.Now().UTC().Format("2006/01"),
		uuid.NewString()+"-"+sanitizeFilename(filename),
	)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.publicBase + "/" + key, nil
}

func sanitizeFilename(name string) string {
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
