package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/filex"
)

// LocalUploader moves staged files under a directory served as static
// content. Intended for development without an object store.
type LocalUploader struct {
	root      string
	urlPrefix string
	now       func() time.Time
}

// NewLocalUploader stores files under publicDir/media and returns URLs
// rooted at urlPrefix.
func NewLocalUploader(publicDir, urlPrefix string) (*LocalUploader, error) {
	root, err := filex.EnsureDir(filepath.Join(publicDir, "media"))
	if err != nil {
		return nil, err
	}
	return &LocalUploader{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, localPath string) (*Asset, error) {
	if localPath == "" {
		return nil, ErrNoFile
	}
	defer filex.RemoveQuietly(localPath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := objectKey("", u.now().UTC(), localPath)
	dst := filepath.Join(u.root, filepath.FromSlash(key))
	if _, err := filex.EnsureDir(filepath.Dir(dst)); err != nil {
		return nil, err
	}
	if err := copyFile(localPath, dst); err != nil {
		return nil, fmt.Errorf("error storing %s: %w", key, err)
	}
	return &Asset{URL: u.urlPrefix + "/" + key, Key: key}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
