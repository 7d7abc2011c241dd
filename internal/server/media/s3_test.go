package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/vidhub/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploadAPI struct {
	in       *s3.PutObjectInput
	body     []byte
	location string
	err      error
}

func (f *fakeUploadAPI) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{Location: f.location}, nil
}

func stageFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func s3Config() *config.Config {
	return &config.Config{
		S3RootUser:     "admin",
		S3RootPassword: "secret",
		S3Bucket:       "videotube",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}
}

func withSeams(t *testing.T, api uploadAPI) {
	t.Helper()
	origLoad, origClient, origUp := loadDefaultAWSConfig, newS3ClientFromConfig, newUploader
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newUploader = origLoad, origClient, origUp
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000/" {
			t.Fatalf("BaseEndpoint not applied: %v", opts.BaseEndpoint)
		}
		if !opts.UsePathStyle {
			t.Fatal("path-style addressing not enabled")
		}
		return &s3.Client{}
	}
	newUploader = func(c *s3.Client) uploadAPI { return api }
}

func TestS3Uploader_Upload(t *testing.T) {
	api := &fakeUploadAPI{location: "ignored"}
	withSeams(t, api)

	u, err := NewS3Uploader(context.Background(), s3Config())
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }

	staged := stageFile(t, "avatar.PNG", "png-bytes")
	asset, err := u.Upload(context.Background(), staged)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^uploads/2024/03/[0-9a-f-]{36}\.png$`), asset.Key)
	assert.Equal(t, "http://127.0.0.1:9000/videotube/"+asset.Key, asset.URL)
	assert.Equal(t, "videotube", aws.ToString(api.in.Bucket))
	assert.Equal(t, asset.Key, aws.ToString(api.in.Key))
	assert.Equal(t, "image/png", aws.ToString(api.in.ContentType))
	assert.Equal(t, "png-bytes", string(api.body))

	_, statErr := os.Stat(staged)
	assert.True(t, os.IsNotExist(statErr), "staged file must be removed")
}

func TestS3Uploader_PublicBaseURLAndLocation(t *testing.T) {
	api := &fakeUploadAPI{location: "https://bucket.s3.amazonaws.com/k"}
	withSeams(t, api)

	cfg := s3Config()
	cfg.S3PublicBaseURL = "https://cdn.example.com/"
	u, err := NewS3Uploader(context.Background(), cfg)
	require.NoError(t, err)

	asset, err := u.Upload(context.Background(), stageFile(t, "c.jpg", "x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+asset.Key, asset.URL)
}

func TestS3Uploader_FailureRemovesStagedFile(t *testing.T) {
	api := &fakeUploadAPI{err: errors.New("access denied")}
	withSeams(t, api)

	u, err := NewS3Uploader(context.Background(), s3Config())
	require.NoError(t, err)

	staged := stageFile(t, "a.png", "x")
	_, err = u.Upload(context.Background(), staged)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	_, statErr := os.Stat(staged)
	assert.True(t, os.IsNotExist(statErr))
}

func TestS3Uploader_NoFileAndMissingFile(t *testing.T) {
	withSeams(t, &fakeUploadAPI{})
	u, err := NewS3Uploader(context.Background(), s3Config())
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error opening staged file")
}

func TestNewS3Uploader_ConfigError(t *testing.T) {
	withSeams(t, &fakeUploadAPI{})
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Uploader(context.Background(), s3Config())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}
