package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"placesync/internal/config"
	"placesync/internal/models/response_models"
)

// ImageStorage downloads remote images and keeps them where the API can serve them.
type ImageStorage interface {
	// DownloadAndSaveImages returns one entry per image that was stored, in
	// input order. Failed downloads are logged and left out.
	DownloadAndSaveImages(ctx context.Context, placeID uuid.UUID, placeName string, urls []string) []response_models.SavedImage
	SaveMenuImage(ctx context.Context, placeID uuid.UUID, menuName, url string) (string, error)
}

const maxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type LocalImageStorage struct {
	HTTP         *http.Client
	Dir          string
	PublicPrefix string
}

func NewLocalImageStorage(dir, publicPrefix string, timeout time.Duration) *LocalImageStorage {
	return &LocalImageStorage{
		HTTP:         &http.Client{Timeout: timeout},
		Dir:          dir,
		PublicPrefix: config.NormalizeImagePrefix(publicPrefix),
	}
}

func (s *LocalImageStorage) DownloadAndSaveImages(ctx context.Context, placeID uuid.UUID, placeName string, urls []string) []response_models.SavedImage {
	saved := make([]response_models.SavedImage, 0, len(urls))
	for _, u := range urls {
		p, err := s.download(ctx, path.Join(placeID.String(), "images"), u)
		if err != nil {
			log.Warn().Err(err).
				Str("place_id", placeID.String()).
				Str("place_name", placeName).
				Str("url", u).
				Msg("image download failed")
			continue
		}
		saved = append(saved, response_models.SavedImage{SourceURL: u, Path: p})
	}
	return saved
}

func (s *LocalImageStorage) SaveMenuImage(ctx context.Context, placeID uuid.UUID, menuName, url string) (string, error) {
	p, err := s.download(ctx, path.Join(placeID.String(), "menus"), url)
	if err != nil {
		return "", fmt.Errorf("menu %q image: %w", menuName, err)
	}
	return p, nil
}

// download stores the body of url under Dir/subdir and returns its public path.
func (s *LocalImageStorage) download(ctx context.Context, subdir, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	ext, err := imageExtension(resp.Header.Get("Content-Type"), url)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.Dir, filepath.FromSlash(subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	name := uuid.New().String() + ext
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	n, copyErr := io.Copy(f, io.LimitReader(resp.Body, maxImageBytes+1))
	closeErr := f.Close()
	if copyErr == nil && n > maxImageBytes {
		copyErr = fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return "", fmt.Errorf("write file: %w", copyErr)
	}

	return s.PublicPrefix + "/" + path.Join(subdir, name), nil
}

func imageExtension(contentType, url string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if ext, ok := imageExtensions[ct]; ok {
		return ext, nil
	}
	if ct != "" && ct != "application/octet-stream" && ct != "binary/octet-stream" {
		return "", fmt.Errorf("not an image: %s", ct)
	}

	clean := strings.ToLower(strings.SplitN(strings.SplitN(url, "?", 2)[0], "#", 2)[0])
	switch ext := path.Ext(clean); ext {
	case ".jpg", ".jpeg":
		return ".jpg", nil
	case ".png", ".webp", ".gif":
		return ext, nil
	}
	return ".jpg", nil
}
