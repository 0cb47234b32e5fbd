package media

import (
	"context"
	"io"

	"github.com/aashikantkumar/cheifidea/config"
)

type Uploader interface {
	Upload(ctx context.Context, folder, name string, r io.Reader) (string, error)
}

// New returns the uploader selected by MEDIA_DRIVER. Local files are
// served by the HTTP server under /uploads/.
func New(ctx context.Context, cfg config.MediaConfig, publicBaseURL string) (Uploader, error) {
	if cfg.Driver == "s3" {
		return NewS3Uploader(ctx, cfg)
	}
	return NewLocalUploader(cfg.UploadDir, publicBaseURL+"/uploads"), nil
}

var (
	_ Uploader = (*LocalUploader)(nil)
	_ Uploader = (*S3Uploader)(nil)
)
