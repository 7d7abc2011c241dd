package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/vidhub/internal/filex"
	"github.com/dmitrijs2005/vidhub/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newUploader = func(c *s3.Client) uploadAPI {
		return manager.NewUploader(c)
	}
)

// uploadAPI is the part of *manager.Uploader we use.
type uploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

const keyPrefix = "uploads"

// S3Uploader stores files in an S3-compatible bucket (AWS or MinIO).
type S3Uploader struct {
	uploader      uploadAPI
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

// NewS3Uploader builds an uploader from the S3 settings in cfg. Static
// credentials are used and the endpoint is addressed path-style.
func NewS3Uploader(ctx context.Context, cfg *config.Config) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	base := cfg.S3PublicBaseURL
	if base == "" && cfg.S3BaseEndpoint != "" {
		base = strings.TrimRight(cfg.S3BaseEndpoint, "/") + "/" + cfg.S3Bucket
	}

	return &S3Uploader{
		uploader:      newUploader(client),
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		now:           time.Now,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, localPath string) (*Asset, error) {
	if localPath == "" {
		return nil, ErrNoFile
	}
	defer filex.RemoveQuietly(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("error opening staged file: %w", err)
	}
	defer f.Close()

	key := objectKey(keyPrefix, u.now().UTC(), localPath)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	out, err := u.uploader.Upload(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("error uploading %s: %w", key, err)
	}

	url := out.Location
	if u.publicBaseURL != "" {
		url = u.publicBaseURL + "/" + key
	}
	if url == "" {
		return nil, fmt.Errorf("upload of %s returned no location", key)
	}
	return &Asset{URL: url, Key: key}, nil
}
