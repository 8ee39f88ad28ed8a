package frxai

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// MaxImageBytes is the largest chart image accepted for analysis.
const MaxImageBytes = 10 << 20

// CheckImageSize rejects sizes above MaxImageBytes.
func CheckImageSize(size int64, lang Language) error {
	if size > MaxImageBytes {
		return NewError(ErrCodeFileTooLarge, Translate(lang, "upload_error_file_size"))
	}
	return nil
}

// ReadImage reads one image from r. At most MaxImageBytes+1 bytes are
// consumed, so an oversized upload is rejected without buffering it whole.
// declaredMIME is trusted when it names an image type; otherwise the
// content is sniffed.
func ReadImage(r io.Reader, declaredMIME string, lang Language) (ImagePart, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return ImagePart{}, WrapError(ErrCodeInvalidInput, Translate(lang, "upload_error_file_type"), fmt.Errorf("read image: %w", err))
	}
	if err := CheckImageSize(int64(len(data)), lang); err != nil {
		return ImagePart{}, err
	}
	return NewImagePart(data, declaredMIME, lang)
}

// NewImagePart validates data already held in memory.
func NewImagePart(data []byte, declaredMIME string, lang Language) (ImagePart, error) {
	if err := CheckImageSize(int64(len(data)), lang); err != nil {
		return ImagePart{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImagePart{}, NewError(ErrCodeInvalidInput, Translate(lang, "upload_error_empty"))
	}
	mimeType := imageMIMEType(declaredMIME)
	if mimeType == "" {
		mimeType = imageMIMEType(http.DetectContentType(data))
	}
	if mimeType == "" {
		return ImagePart{}, NewError(ErrCodeInvalidInput, Translate(lang, "upload_error_file_type"))
	}
	return ImagePart{Data: data, MIMEType: mimeType}, nil
}

// imageMIMEType returns the bare media type when raw is an image type.
func imageMIMEType(raw string) string {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return ""
	}
	return mediaType
}
