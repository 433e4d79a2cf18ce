package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrFileTooLarge indicates the upload exceeds the configured size cap.
	ErrFileTooLarge = errors.New("storage: file exceeds maximum size")
	// ErrInvalidMimeType indicates the declared content type is not allowed.
	ErrInvalidMimeType = errors.New("storage: file type not allowed")
)

// DiskStorage writes uploaded attachments to a local directory, one file per
// anexo, with collision-free names derived from the demanda id.
type DiskStorage struct {
	dir          string
	maxSizeBytes int64
	allowedMimes map[string]struct{}
}

// NewDiskStorage ensures the upload directory exists and returns the store.
func NewDiskStorage(dir string, maxSizeBytes int64, allowedMimes []string) (*DiskStorage, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	mimes := make(map[string]struct{}, len(allowedMimes))
	for _, m := range allowedMimes {
		mimes[m] = struct{}{}
	}

	return &DiskStorage{
		dir:          dir,
		maxSizeBytes: maxSizeBytes,
		allowedMimes: mimes,
	}, nil
}

// StoredFile describes an attachment persisted on disk.
type StoredFile struct {
	Path         string
	NomeOriginal string
	TipoMime     string
	TamanhoBytes int64
}

// Save validates and writes the multipart file to disk. The stored name is
// demanda-<id>-<timestamp>-<random><ext> so concurrent uploads never collide.
func (s *DiskStorage) Save(demandaID int64, file *multipart.FileHeader) (*StoredFile, error) {
	if file == nil {
		return nil, fmt.Errorf("storage: no file provided")
	}
	if s.maxSizeBytes > 0 && file.Size > s.maxSizeBytes {
		return nil, ErrFileTooLarge
	}

	mime := file.Header.Get("Content-Type")
	if len(s.allowedMimes) > 0 {
		if _, ok := s.allowedMimes[mime]; !ok {
			return nil, ErrInvalidMimeType
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("demanda-%d-%d-%d%s",
		demandaID,
		time.Now().UnixMilli(),
		rand.Int63n(1_000_000_000),
		filepath.Ext(file.Filename),
	)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create stored file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write stored file: %w", err)
	}

	return &StoredFile{
		Path:         path,
		NomeOriginal: file.Filename,
		TipoMime:     mime,
		TamanhoBytes: written,
	}, nil
}
