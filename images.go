package bcasweb

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 82
	maxUploadSize = 5 << 20 // 5MB
)

var (
	// ErrImageTooLarge is returned for uploads above maxUploadSize.
	ErrImageTooLarge = errors.New("image too large")
	// ErrUnsupportedImage is returned when the upload is not a decodable
	// JPEG, PNG, GIF or WebP image.
	ErrUnsupportedImage = errors.New("unsupported image")
)

// EncodeImage decodes an uploaded picture, shrinks it to maxImageWidth and
// returns it as a self-contained JPEG data URL ready to be stored on an
// entity.
func EncodeImage(src io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxUploadSize {
		return "", ErrImageTooLarge
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	ref, err := ParseRef(c.Param("kind"), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max "+strconv.Itoa(maxUploadSize>>20)+"MB)")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	blob, err := EncodeImage(src)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrUnsupportedImage) {
			return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
		}
		return err
	}
	if err := a.Editor.AttachImage(ref, blob); err != nil {
		return a.editError(err)
	}
	a.logger.Info().Str("ref", ref.String()).Int("bytes", len(blob)).Msg("image attached")
	return a.renderAdminDashboard(c, "image saved")
}

func (a *App) handleImageDelete(c echo.Context) error {
	ref, err := ParseRef(c.Param("kind"), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := a.Editor.DetachImage(ref); err != nil {
		return a.editError(err)
	}
	return a.renderAdminDashboard(c, "image removed")
}
