package service

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"fingerprintapi/internal/storage"
	storeMocks "fingerprintapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var pngSig = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestFileService_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		r := strings.NewReader("bytes")
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".png") && !strings.Contains(key, "/")
		}), r, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.Size == 5 && opt.ContentType == "image/png" &&
				opt.Metadata["original-filename"] == "thumb.PNG"
		})).Return(storage.ObjectInfo{}, nil)

		ref, err := svc.Store(ctx, r, "thumb.PNG", 5)

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "/fingerprints/"))
		assert.True(t, strings.HasSuffix(ref, ".png"))
		mStore.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc := NewFileService(new(storeMocks.MockStorage), "/fingerprints")

		_, err := svc.Store(ctx, nil, "a.png", 0)

		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("backend failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		r := strings.NewReader("bytes")
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("disk full"))

		_, err := svc.Store(ctx, r, "a.png", 5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "store file")
	})
}

func TestFileService_StoreBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("order preserved", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil).Times(3)

		refs, err := svc.StoreBatch(ctx, []Upload{
			{Reader: strings.NewReader("1"), Filename: "a.png", Size: 1},
			{Reader: strings.NewReader("2"), Filename: "b.jpg", Size: 1},
			{Reader: strings.NewReader("3"), Filename: "c.gif", Size: 1},
		})

		assert.NoError(t, err)
		assert.Len(t, refs, 3)
		assert.True(t, strings.HasSuffix(refs[0], ".png"))
		assert.True(t, strings.HasSuffix(refs[1], ".jpg"))
		assert.True(t, strings.HasSuffix(refs[2], ".gif"))
		mStore.AssertExpectations(t)
	})

	t.Run("fails fast on first error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil).Once()
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("disk full")).Once()

		refs, err := svc.StoreBatch(ctx, []Upload{
			{Reader: strings.NewReader("1"), Filename: "a.png", Size: 1},
			{Reader: strings.NewReader("2"), Filename: "b.jpg", Size: 1},
			{Reader: strings.NewReader("3"), Filename: "c.gif", Size: 1},
		})

		assert.Error(t, err)
		assert.Nil(t, refs)
		// Third file never attempted.
		mStore.AssertNumberOfCalls(t, "Put", 2)
	})
}

func TestFileService_StoreBase64(t *testing.T) {
	ctx := context.Background()

	encode := func(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

	t.Run("png signature sniffed without hint", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "scan_") && strings.HasSuffix(key, ".png")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)

		ref, err := svc.StoreBase64(ctx, encode(pngSig), "scan.tmp", "")

		assert.NoError(t, err)
		assert.True(t, strings.HasSuffix(ref, ".png"))
		mStore.AssertExpectations(t)
	})

	t.Run("explicit hint beats byte content", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".webp")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)

		ref, err := svc.StoreBase64(ctx, encode(pngSig), "scan", "webp")

		assert.NoError(t, err)
		assert.True(t, strings.HasSuffix(ref, ".webp"))
	})

	t.Run("data url prefix stripped at first comma", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".jpg")
		}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.Size == int64(len(jpeg))
		})).Return(storage.ObjectInfo{}, nil)

		ref, err := svc.StoreBase64(ctx, "data:image/jpeg;base64,"+encode(jpeg), "scan.jpg", "")

		assert.NoError(t, err)
		assert.True(t, strings.HasSuffix(ref, ".jpg"))
	})

	t.Run("malformed base64", func(t *testing.T) {
		svc := NewFileService(new(storeMocks.MockStorage), "/fingerprints")

		_, err := svc.StoreBase64(ctx, "not-base64!!!", "scan.png", "")

		assert.ErrorIs(t, err, ErrInvalidBase64)
	})

	t.Run("unknown bytes default to jpg", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".jpg")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)

		_, err := svc.StoreBase64(ctx, encode([]byte{0x00, 0x01, 0x02, 0x03}), "scan", "")

		assert.NoError(t, err)
	})
}

func TestFileService_Retrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("found with content type", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Get", ctx, "abc.png").
			Return(io.NopCloser(strings.NewReader("bytes")), storage.ObjectInfo{Key: "abc.png"}, nil)

		rc, ct, err := svc.Retrieve(ctx, "abc.png")

		assert.NoError(t, err)
		assert.Equal(t, "image/png", ct)
		rc.Close()
	})

	t.Run("traversal input reduced to basename", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Get", ctx, "secret").
			Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

		_, _, err := svc.Retrieve(ctx, "../secret")

		assert.ErrorIs(t, err, ErrFileNotFound)
		mStore.AssertCalled(t, "Get", ctx, "secret")
	})

	t.Run("backslash traversal reduced to basename", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Get", ctx, "secret").
			Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

		_, _, err := svc.Retrieve(ctx, `..\..\secret`)

		assert.ErrorIs(t, err, ErrFileNotFound)
		mStore.AssertCalled(t, "Get", ctx, "secret")
	})

	t.Run("missing file", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Get", ctx, "missing.png").
			Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

		_, _, err := svc.Retrieve(ctx, "missing.png")

		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("unknown extension maps to octet stream", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewFileService(mStore, "/fingerprints")

		mStore.On("Get", ctx, "abc.bin").
			Return(io.NopCloser(strings.NewReader("x")), storage.ObjectInfo{Key: "abc.bin"}, nil)

		rc, ct, err := svc.Retrieve(ctx, "abc.bin")

		assert.NoError(t, err)
		assert.Equal(t, "application/octet-stream", ct)
		rc.Close()
	})
}

func TestSniffImageExtension(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, ".jpg"},
		{"png", pngSig, ".png"},
		{"gif", []byte("GIF89a"), ".gif"},
		{"bmp", []byte{0x42, 0x4D, 0x00, 0x00}, ".bmp"},
		{"webp", []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'E', 'B', 'P'}, ".webp"},
		{"riff but not webp", []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'A', 'V', 'E'}, ".jpg"},
		{"short input", []byte{0x89}, ".jpg"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniffImageExtension(tt.data))
		})
	}
}

func TestResolveImageExtension(t *testing.T) {
	assert.Equal(t, ".webp", resolveImageExtension(pngSig, "webp"))
	assert.Equal(t, ".webp", resolveImageExtension(pngSig, ".webp"))
	assert.Equal(t, ".png", resolveImageExtension(pngSig, "PNG"))
	assert.Equal(t, ".png", resolveImageExtension(pngSig, ""))
}
