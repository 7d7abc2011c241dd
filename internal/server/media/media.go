// Package media hands staged upload files to the media host and returns
// their public URLs. The staged file is always removed after the attempt.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/server/config"
	"github.com/google/uuid"
)

// ErrNoFile is returned when Upload is called without a staged path.
var ErrNoFile = errors.New("no file to upload")

// Asset is a file stored on the media host.
type Asset struct {
	URL string
	Key string
}

type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
}

// New builds the Uploader selected by cfg.MediaDriver.
func New(ctx context.Context, cfg *config.Config) (Uploader, error) {
	switch cfg.MediaDriver {
	case config.MediaS3:
		return NewS3Uploader(ctx, cfg)
	case config.MediaLocal:
		return NewLocalUploader(cfg.PublicDir, "/media")
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.MediaDriver)
	}
}

// objectKey returns "<prefix>/<yyyy>/<mm>/<uuid><ext>".
func objectKey(prefix string, now time.Time, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return path.Join(prefix, fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+ext)
}
