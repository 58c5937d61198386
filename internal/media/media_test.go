package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/maheshrc27/socialbridge/configs"
	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/executor"
)

var (
	pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 24)...)
	mp4Bytes = append([]byte{0, 0, 0, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}, make([]byte, 24)...)
)

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"":                                     KindNone,
		"https://cdn.example.com/a/photo.jpg":  KindImage,
		"https://cdn.example.com/a/photo.PNG":  KindImage,
		"https://cdn.example.com/clip.mp4?x=1": KindVideo,
		"https://cdn.example.com/clip.mov":     KindVideo,
		"https://cdn.example.com/noext":        KindImage,
	}
	for in, want := range tests {
		assert.Equal(t, want, KindOf(in), in)
	}
}

func TestKindOfBytes(t *testing.T) {
	assert.Equal(t, KindImage, KindOfBytes(pngBytes))
	assert.Equal(t, KindVideo, KindOfBytes(mp4Bytes))
	assert.Equal(t, KindNone, KindOfBytes([]byte("plain text")))
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(mp4Bytes)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(executor.NewWithClient(srv.Client(), executor.DefaultConfig(), nil))
	obj, err := f.Fetch(context.Background(), srv.URL+"/clip")

	require.NoError(t, err)
	assert.Equal(t, KindVideo, obj.Kind)
	assert.Equal(t, "video/mp4", obj.ContentType)
	assert.Equal(t, mp4Bytes, obj.Data)
}

type fakeObjectAPI struct {
	objects map[string][]byte
	getErr  error
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

type fetcherFunc func(ctx context.Context, rawURL string) (*Object, error)

func (f fetcherFunc) Fetch(ctx context.Context, rawURL string) (*Object, error) {
	return f(ctx, rawURL)
}

func TestR2StoreUploadThenFetch(t *testing.T) {
	api := &fakeObjectAPI{objects: map[string][]byte{}}
	store := NewR2Store(api, config.R2{BucketName: "media", PublicURL: "https://pub.r2.dev/"}, nil)

	url, kind, err := store.Upload(context.Background(), pngBytes)
	require.NoError(t, err)
	assert.Equal(t, KindImage, kind)
	assert.Regexp(t, `^https://pub\.r2\.dev/[\w-]+\.png$`, url)

	obj, err := store.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestR2StoreRejectsUnknownFiles(t *testing.T) {
	store := NewR2Store(&fakeObjectAPI{objects: map[string][]byte{}}, config.R2{PublicURL: "https://pub.r2.dev"}, nil)

	_, _, err := store.Upload(context.Background(), []byte("not media"))

	assert.True(t, apperrors.IsValidation(err))
}

func TestR2StoreFallsBackForForeignURLs(t *testing.T) {
	var fetched string
	fallback := fetcherFunc(func(ctx context.Context, rawURL string) (*Object, error) {
		fetched = rawURL
		return &Object{Kind: KindImage}, nil
	})
	store := NewR2Store(&fakeObjectAPI{objects: map[string][]byte{}}, config.R2{PublicURL: "https://pub.r2.dev"}, fallback)

	_, err := store.Fetch(context.Background(), "https://elsewhere.example.com/a.jpg")

	require.NoError(t, err)
	assert.Equal(t, "https://elsewhere.example.com/a.jpg", fetched)
}

func TestR2StoreGetFailureIsTransient(t *testing.T) {
	store := NewR2Store(&fakeObjectAPI{getErr: errors.New("timeout")}, config.R2{PublicURL: "https://pub.r2.dev"}, nil)

	_, err := store.Fetch(context.Background(), "https://pub.r2.dev/a.png")

	assert.True(t, apperrors.IsTransient(err))
}
