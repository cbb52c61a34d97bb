package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	ossHelper "qurban_backend/internals/helpers/oss"
)

// Store: tempat menyimpan PNG QR.
type Store interface {
	Save(ctx context.Context, name string, png []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocalStore: tulis ke direktori publik, URL relatif terhadap static root.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

func (s *LocalStore) Save(_ context.Context, name string, png []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.Dir, filepath.Base(name)), png, 0o644); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + filepath.Base(name), nil
}

// Delete: file yang sudah tidak ada dianggap sukses.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	name := filepath.Base(strings.TrimPrefix(url, s.URLPrefix+"/"))
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("url qr tidak valid: %q", url)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// OSSStore: upload ke bucket Aliyun OSS.
type OSSStore struct {
	OSS *ossHelper.OSSService
}

func (s *OSSStore) Save(ctx context.Context, name string, png []byte) (string, error) {
	key := s.OSS.ObjectKey(name)
	if err := s.OSS.UploadStream(ctx, key, bytes.NewReader(png), "image/png", true, true); err != nil {
		return "", fmt.Errorf("upload oss %s: %w", key, err)
	}
	return s.OSS.PublicURL(key), nil
}

func (s *OSSStore) Delete(ctx context.Context, url string) error {
	key, err := s.OSS.ExtractKeyFromPublicURL(url)
	if err != nil {
		return err
	}
	return s.OSS.DeleteObject(ctx, key)
}

// NewStoreFromEnv: OSS kalau ENV lengkap, selain itu direktori lokal.
func NewStoreFromEnv(localDir, urlPrefix string) Store {
	if ossHelper.EnvConfigured() {
		svc, err := ossHelper.NewOSSServiceFromEnv("qr-codes")
		if err == nil {
			log.Printf("[QR] storage: OSS bucket %s", svc.BucketName)
			return &OSSStore{OSS: svc}
		}
		log.Printf("[QR] OSS gagal init, pakai lokal: %v", err)
	}
	log.Printf("[QR] storage: lokal %s", localDir)
	return NewLocalStore(localDir, urlPrefix)
}
