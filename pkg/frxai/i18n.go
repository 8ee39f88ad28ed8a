package frxai

import (
	"maps"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Language is a supported UI and prompt language.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"
)

// Theme is the persisted appearance preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseLanguage accepts "en" or "id" (case-insensitive).
func ParseLanguage(raw string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageIndonesian:
		return LanguageIndonesian, true
	default:
		return "", false
	}
}

// ParseTheme accepts "light", "dark" or "system" (case-insensitive).
func ParseTheme(raw string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	case ThemeSystem:
		return ThemeSystem, true
	default:
		return "", false
	}
}

// normalizeLanguage maps anything unknown to English.
func normalizeLanguage(lang Language) Language {
	if parsed, ok := ParseLanguage(string(lang)); ok {
		return parsed
	}
	return LanguageEnglish
}

func (l Language) tag() language.Tag {
	if normalizeLanguage(l) == LanguageIndonesian {
		return language.Indonesian
	}
	return language.English
}

// Name returns the language name as written in the given language.
func (l Language) Name(in Language) string {
	indonesian := normalizeLanguage(l) == LanguageIndonesian
	if normalizeLanguage(in) == LanguageIndonesian {
		if indonesian {
			return "Indonesia"
		}
		return "Inggris"
	}
	if indonesian {
		return "Indonesian"
	}
	return "English"
}

var localeMatcher = language.NewMatcher([]language.Tag{language.English, language.Indonesian})

// LanguageFromLocale derives the UI language from a platform locale or an
// Accept-Language header value. Only a confident Indonesian match yields id.
func LanguageFromLocale(locale string) Language {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return LanguageEnglish
	}
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return LanguageEnglish
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if index == 1 && confidence >= language.High {
		return LanguageIndonesian
	}
	return LanguageEnglish
}

var messageCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range englishMessages {
		_ = builder.SetString(language.English, key, msg)
	}
	for key, msg := range indonesianMessages {
		_ = builder.SetString(language.Indonesian, key, msg)
	}
	return builder
}

// Translate returns the localized text for key, formatting args into it.
// Unknown keys are returned as-is.
func Translate(lang Language, key string, args ...any) string {
	printer := message.NewPrinter(lang.tag(), message.Catalog(messageCatalog))
	return printer.Sprintf(key, args...)
}

// Dictionary returns a copy of the full UI dictionary for lang.
func Dictionary(lang Language) map[string]string {
	if normalizeLanguage(lang) == LanguageIndonesian {
		return maps.Clone(indonesianMessages)
	}
	return maps.Clone(englishMessages)
}

var englishMessages = map[string]string{
	"settings_title":             "Settings",
	"upload_header_title":        "FrxAI",
	"upload_main_subtitle":       "Upload a screenshot or get instant Trading Analysis",
	"upload_subtitle":            "Upload a screenshot for instant trading analysis.",
	"upload_card_title":          "Upload a Chart Photo",
	"upload_take_photo":          "Take Photo",
	"upload_image":               "Upload Image",
	"upload_detect_banner_title": "In-Depth Analysis at Your Fingertips",
	"upload_detect_banner_body":  "FrxAI uses advanced AI to dissect every aspect of your forex chart. We identify key candlestick patterns, measure trend strength with moving averages and RSI, and map out crucial support and resistance levels. This analysis gives you a comprehensive picture of market dynamics, helping you make smarter, more informed trading decisions.",
	"upload_error_file_size":     "File size exceeds 10MB. Please upload a smaller image.",
	"upload_error_file_type":     "Unsupported file type. Please upload an image.",
	"upload_error_empty":         "The selected file is empty.",
	"error_reference_image_load": "Failed to load the reference image. Please check your connection.",
	"result_title":               "Analysis Result",
	"result_image_alt":           "Analyzed chart",
	"result_insights_title":      "Key Insights",
	"result_trend":               "Market Trend",
	"result_volatility":          "Volatility",
	"result_volume":              "Volume",
	"result_sentiment":           "Market Sentiment",
	"result_confidence":          "Confidence Score",
	"result_game_plan_title":     "Game Plan",
	"result_fundamental_title":   "Fundamental Analysis",
	"result_market_asset":        "Market Asset",
	"result_sources_title":       "News Sources",
	"settings_language":          "Language",
	"settings_theme":             "Appearance",
	"settings_theme_light":       "Light",
	"settings_theme_dark":        "Dark",
	"settings_theme_system":      "System",
	"settings_error_theme":       "Unknown theme. Choose light, dark or system.",
	"settings_error_language":    "Unknown language. Choose en or id.",
	"settings_error_save":        "Failed to save settings.",
	"loader_analyzing":           "Analyzing your chart...",
	"loader_wait":                "This may take a moment.",
	"error_analysis_failed":      "Analysis Failed",
	"error_analysis_retries":     "Failed to analyze the chart after multiple attempts. The AI model may be busy or there's a network issue. Please try again later.",
	"error_malformed_response":   "Failed to process the response from the AI. Invalid data format.",
	"error_invalid_shape":        "Invalid data structure received from API.",
	"error_ai_unavailable":       "The AI service is not configured.",
	"toast_success_title":        "Success",
	"error_unknown":              "An unknown error occurred.",
	"error_invalid_request":      "Invalid request.",
	"welcome_title":              "Welcome to FrxAI",
	"welcome_subtitle":           "Your personal AI trading analyst. Turn complex charts into clear, actionable insights.",
	"welcome_feature1_title":     "Snap or Upload",
	"welcome_feature1_desc":      "Instantly analyze any forex or stock chart from a photo or a screenshot.",
	"welcome_feature2_title":     "AI-Powered Analysis",
	"welcome_feature2_desc":      "Our AI identifies trends, sentiment, volatility, and key market patterns.",
	"welcome_feature3_title":     "Actionable Game Plan",
	"welcome_feature3_desc":      "Get a concise, data-driven trading strategy for your next move.",
	"welcome_button":             "Get Started",
	"offline_title":              "No Internet Connection",
	"offline_subtitle":           "This application requires an internet connection to function. Please check your network.",
	"offline_retry_button":       "Retry",
	"instruction_title":          "Instructions",
	"instruction_subtitle":       "For the best analysis results, please follow these guidelines:",
	"instruction_rule1":          "Ensure the Asset Name (e.g., EUR/USD) is clearly visible.",
	"instruction_rule2":          "Use a sharp, non-blurry image.",
	"instruction_rule3":          "Position the camera straight and frame the entire chart area.",
	"instruction_button_start":   "Let's Start",
	"news_section_title":         "Latest Market News",
	"news_search_placeholder":    "Search asset (e.g., EUR/USD)...",
	"news_search_button_label":   "Search News",
	"news_source_label":          "Source",
	"news_loading":               "Fetching news...",
	"news_error":                 "Failed to load news. Please try again.",
	"news_error_retries":         "Failed to fetch news for %s after multiple attempts.",
	"news_no_results":            "No news found for this asset.",
	"news_sentiment_bullish":     "Bullish",
	"news_sentiment_bearish":     "Bearish",
	"news_sentiment_neutral":     "Neutral",
}

var indonesianMessages = map[string]string{
	"settings_title":             "Pengaturan",
	"upload_header_title":        "FrxAI",
	"upload_main_subtitle":       "Unggah tangkapan layar atau dapatkan Analisis Trading instan",
	"upload_subtitle":            "Unggah tangkapan layar untuk analisis trading instan.",
	"upload_card_title":          "Unggah Foto Chart",
	"upload_take_photo":          "Ambil Foto",
	"upload_image":               "Unggah Gambar",
	"upload_detect_banner_title": "Analisis Mendalam di Ujung Jari Anda",
	"upload_detect_banner_body":  "FrxAI menggunakan AI canggih untuk membedah setiap aspek dari chart forex Anda. Kami mengidentifikasi pola candlestick kunci, mengukur kekuatan tren dengan moving average dan RSI, serta memetakan level support dan resistance krusial. Analisis ini memberi Anda gambaran menyeluruh tentang dinamika pasar, membantu Anda membuat keputusan trading yang lebih cerdas dan terinformasi.",
	"upload_error_file_size":     "Ukuran file melebihi 10MB. Harap unggah gambar yang lebih kecil.",
	"upload_error_file_type":     "Jenis file tidak didukung. Harap unggah gambar.",
	"upload_error_empty":         "File yang dipilih kosong.",
	"error_reference_image_load": "Gagal memuat gambar referensi. Silakan periksa koneksi Anda.",
	"result_title":               "Hasil Analisis",
	"result_image_alt":           "Chart yang dianalisis",
	"result_insights_title":      "Wawasan Utama",
	"result_trend":               "Tren Pasar",
	"result_volatility":          "Volatilitas",
	"result_volume":              "Volume",
	"result_sentiment":           "Sentimen Pasar",
	"result_confidence":          "Tingkat Keyakinan",
	"result_game_plan_title":     "Rencana Aksi",
	"result_fundamental_title":   "Analisis Fundamental",
	"result_market_asset":        "Aset Pasar",
	"result_sources_title":       "Sumber Berita",
	"settings_language":          "Bahasa",
	"settings_theme":             "Tampilan",
	"settings_theme_light":       "Terang",
	"settings_theme_dark":        "Gelap",
	"settings_theme_system":      "Sistem",
	"settings_error_theme":       "Tema tidak dikenal. Pilih light, dark, atau system.",
	"settings_error_language":    "Bahasa tidak dikenal. Pilih en atau id.",
	"settings_error_save":        "Gagal menyimpan pengaturan.",
	"loader_analyzing":           "Menganalisis chart Anda...",
	"loader_wait":                "Proses ini mungkin perlu beberapa saat.",
	"error_analysis_failed":      "Analisis Gagal",
	"error_analysis_retries":     "Gagal menganalisis chart setelah beberapa kali percobaan. Model AI mungkin sibuk atau ada masalah jaringan. Silakan coba lagi nanti.",
	"error_malformed_response":   "Gagal memproses respons dari AI. Format data tidak valid.",
	"error_invalid_shape":        "Struktur data dari AI tidak valid.",
	"error_ai_unavailable":       "Layanan AI belum dikonfigurasi.",
	"toast_success_title":        "Berhasil",
	"error_unknown":              "Terjadi sebuah kesalahan yang tidak diketahui.",
	"error_invalid_request":      "Permintaan tidak valid.",
	"welcome_title":              "Selamat Datang di FrxAI",
	"welcome_subtitle":           "Analis trading AI pribadi Anda. Ubah chart kompleks menjadi wawasan yang jelas dan dapat ditindaklanjuti.",
	"welcome_feature1_title":     "Ambil atau Unggah Foto",
	"welcome_feature1_desc":      "Analisis chart forex atau saham apa pun secara instan dari foto atau tangkapan layar.",
	"welcome_feature2_title":     "Analisis Berbasis AI",
	"welcome_feature2_desc":      "AI kami mengidentifikasi tren, sentimen, volatilitas, dan pola pasar utama.",
	"welcome_feature3_title":     "Rencana Aksi Praktis",
	"welcome_feature3_desc":      "Dapatkan strategi trading berbasis data yang ringkas untuk langkah Anda selanjutnya.",
	"welcome_button":             "Mulai",
	"offline_title":              "Tidak Ada Koneksi Internet",
	"offline_subtitle":           "Aplikasi ini memerlukan koneksi internet untuk berfungsi. Harap periksa jaringan Anda.",
	"offline_retry_button":       "Coba Lagi",
	"instruction_title":          "Instruksi",
	"instruction_subtitle":       "Untuk hasil analisis terbaik, harap ikuti panduan ini:",
	"instruction_rule1":          "Pastikan Nama Aset (misal: EUR/USD) terlihat jelas.",
	"instruction_rule2":          "Gunakan gambar yang fokus dan tidak buram.",
	"instruction_rule3":          "Posisikan kamera lurus dan cakup seluruh area chart yang relevan.",
	"instruction_button_start":   "Ayo Mulai",
	"news_section_title":         "Berita Pasar Terkini",
	"news_search_placeholder":    "Cari aset (misal: EUR/USD)...",
	"news_search_button_label":   "Cari Berita",
	"news_source_label":          "Sumber",
	"news_loading":               "Mengambil berita...",
	"news_error":                 "Gagal memuat berita. Silakan coba lagi.",
	"news_error_retries":         "Gagal mengambil berita untuk %s setelah beberapa kali percobaan.",
	"news_no_results":            "Tidak ada berita ditemukan untuk aset ini.",
	"news_sentiment_bullish":     "Bullish",
	"news_sentiment_bearish":     "Bearish",
	"news_sentiment_neutral":     "Netral",
}
