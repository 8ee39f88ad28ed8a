package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"frxai/pkg/frxai"
)

const (
	// multipartOverhead leaves room for boundaries and the lang field.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   h.version,
		Generator: h.core.HasGenerator(),
	})
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	explicit := r.URL.Query().Get("lang")
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, frxai.MaxImageBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			lang := h.requestLanguage(r, explicit)
			writeCoreError(w, r, uploadError(err, lang), lang)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		if explicit == "" {
			explicit = r.FormValue("lang")
		}
	}
	lang := h.requestLanguage(r, explicit)

	image, err := readUploadedImage(r, lang)
	if err != nil {
		writeCoreError(w, r, err, lang)
		return
	}
	result, err := h.core.AnalyzeChart(r.Context(), image, lang)
	if err != nil {
		writeCoreError(w, r, err, lang)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) news(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lang := h.requestLanguage(r, query.Get("lang"))
	feed, err := h.core.FetchNews(r.Context(), query.Get("asset"), lang)
	if err != nil {
		writeCoreError(w, r, err, lang)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = r.Header.Get("Accept-Language")
	}
	writeJSON(w, http.StatusOK, h.core.LoadSettings(r.Context(), locale))
}

func (h *handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var update frxai.SettingsUpdate
	if err := decodeJSON(r, &update); err != nil {
		lang := h.requestLanguage(r, "")
		writeError(w, r, http.StatusBadRequest, frxai.Translate(lang, "error_invalid_request"))
		return
	}
	settings, err := h.core.UpdateSettings(r.Context(), update)
	if err != nil {
		writeCoreError(w, r, err, h.requestLanguage(r, ""))
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) getOnboarding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, onboardingResponse{Completed: h.core.HasOnboarded(r.Context())})
}

func (h *handler) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.core.CompleteOnboarding(r.Context()); err != nil {
		writeCoreError(w, r, err, h.requestLanguage(r, ""))
		return
	}
	writeJSON(w, http.StatusOK, onboardingResponse{Completed: true})
}

func (h *handler) translations(w http.ResponseWriter, r *http.Request) {
	lang, ok := frxai.ParseLanguage(chi.URLParam(r, "lang"))
	if !ok {
		writeError(w, r, http.StatusNotFound, frxai.Translate(h.requestLanguage(r, ""), "error_invalid_request"))
		return
	}
	writeJSON(w, http.StatusOK, translationsResponse{Language: lang, Messages: frxai.Dictionary(lang)})
}

// requestLanguage picks the explicit lang, then the stored setting, then
// Accept-Language, then English.
func (h *handler) requestLanguage(r *http.Request, explicit string) frxai.Language {
	if lang, ok := frxai.ParseLanguage(explicit); ok {
		return lang
	}
	return h.core.LoadSettings(r.Context(), r.Header.Get("Accept-Language")).Language
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readUploadedImage takes the "image" form file of a parsed multipart
// request, or the raw body otherwise.
func readUploadedImage(r *http.Request, lang frxai.Language) (frxai.ImagePart, error) {
	if r.MultipartForm == nil {
		return frxai.ReadImage(r.Body, r.Header.Get("Content-Type"), lang)
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return frxai.ImagePart{}, frxai.WrapError(frxai.ErrCodeInvalidInput, frxai.Translate(lang, "upload_error_empty"), err)
	}
	defer file.Close()
	if err := frxai.CheckImageSize(header.Size, lang); err != nil {
		return frxai.ImagePart{}, err
	}
	return frxai.ReadImage(file, header.Header.Get("Content-Type"), lang)
}

func uploadError(err error, lang frxai.Language) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return frxai.WrapError(frxai.ErrCodeFileTooLarge, frxai.Translate(lang, "upload_error_file_size"), err)
	}
	return frxai.WrapError(frxai.ErrCodeInvalidInput, frxai.Translate(lang, "error_invalid_request"), err)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
