package utils

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/cppla/askme/config"
)

// AvatarURLPrefix is where the router serves UploadDir.
const AvatarURLPrefix = "/uploads"

var (
	ErrAvatarTooLarge = errors.New("avatar exceeds the size limit")
	ErrAvatarInvalid  = errors.New("avatar is not a supported image")
)

// SaveAvatar decodes an uploaded image, crops it to a square thumbnail and
// stores it as PNG. It returns the public URL of the stored file.
func SaveAvatar(fh *multipart.FileHeader) (string, error) {
	cfg := config.Get()
	maxBytes := int64(cfg.AvatarMaxSizeMB) << 20
	if fh.Size > maxBytes {
		return "", ErrAvatarTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return StoreAvatar(io.LimitReader(f, maxBytes+1), cfg.UploadDir, cfg.AvatarSizePx)
}

// StoreAvatar writes the thumbnail of r under dir/avatars with a random name.
func StoreAvatar(r io.Reader, dir string, sizePx int) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAvatarInvalid, err)
	}
	thumb := thumbnail(img, sizePx)

	avatarDir := filepath.Join(dir, "avatars")
	if err := os.MkdirAll(avatarDir, 0o755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}
	name := uuid.NewString() + ".png"
	if err := imaging.Save(thumb, filepath.Join(avatarDir, name)); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return path.Join(AvatarURLPrefix, "avatars", name), nil
}

// RemoveAvatar deletes a file previously returned by SaveAvatar.
// URLs outside the avatar directory are ignored.
func RemoveAvatar(url string) error {
	prefix := path.Join(AvatarURLPrefix, "avatars") + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := path.Base(url)
	if name != strings.TrimPrefix(url, prefix) {
		return nil
	}
	err := os.Remove(filepath.Join(config.Get().UploadDir, "avatars", name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func thumbnail(img image.Image, sizePx int) *image.NRGBA {
	if sizePx <= 0 {
		sizePx = 200
	}
	return imaging.Fill(img, sizePx, sizePx, imaging.Center, imaging.Lanczos)
}
