package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// Uploader stores media bytes and returns a public URL. *media.R2Store
// implements it.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, media.Kind, error)
}

type MediaService interface {
	Upload(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]transfer.MediaUpload, error)
}

type mediaService struct {
	uploader Uploader
	maxSize  int64
	logger   logging.Logger
}

const defaultMaxMediaSize = 512 << 20

func NewMediaService(uploader Uploader, maxSize int64, logger logging.Logger) MediaService {
	if maxSize <= 0 {
		maxSize = defaultMaxMediaSize
	}
	return &mediaService{uploader: uploader, maxSize: maxSize, logger: logger}
}

func (s *mediaService) Upload(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]transfer.MediaUpload, error) {
	if len(files) == 0 {
		return nil, &apperrors.ValidationError{Field: "files", Message: "no files selected"}
	}

	uploads := make([]transfer.MediaUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > s.maxSize {
			return nil, &apperrors.ValidationError{Field: "files", Message: fmt.Sprintf("%s exceeds %d bytes", fh.Filename, s.maxSize)}
		}
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}

		url, kind, err := s.uploader.Upload(ctx, data)
		if err != nil {
			return nil, err
		}
		s.logger.WithFields(logging.Fields{
			"user_id": userID,
			"url":     url,
			"kind":    kind,
		}).Debug("media uploaded")
		uploads = append(uploads, transfer.MediaUpload{URL: url, Kind: string(kind)})
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}
