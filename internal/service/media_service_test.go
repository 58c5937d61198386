package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/media"
)

type uploaderFunc func(ctx context.Context, data []byte) (string, media.Kind, error)

func (f uploaderFunc) Upload(ctx context.Context, data []byte) (string, media.Kind, error) {
	return f(ctx, data)
}

func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"]
}

func TestMediaServiceUpload(t *testing.T) {
	var got []byte
	up := uploaderFunc(func(_ context.Context, data []byte) (string, media.Kind, error) {
		got = data
		return "https://cdn.example.com/abc.png", media.KindImage, nil
	})
	svc := NewMediaService(up, 0, testLogger())

	uploads, err := svc.Upload(context.Background(), 1, fileHeaders(t, map[string][]byte{"a.png": []byte("png-bytes")}))

	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "https://cdn.example.com/abc.png", uploads[0].URL)
	assert.Equal(t, "image", uploads[0].Kind)
	assert.Equal(t, []byte("png-bytes"), got)
}

func TestMediaServiceUploadLimits(t *testing.T) {
	svc := NewMediaService(uploaderFunc(nil), 4, testLogger())

	_, err := svc.Upload(context.Background(), 1, nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Upload(context.Background(), 1, fileHeaders(t, map[string][]byte{"big.mp4": []byte("0123456789")}))
	assert.True(t, apperrors.IsValidation(err))
}
