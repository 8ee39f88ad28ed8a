package frxai

import (
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
)

// Source is a grounding citation attached to an analysis.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// AnalysisResult is the normalized chart analysis returned to the UI.
type AnalysisResult struct {
	MarketAsset         string   `json:"market_asset"`
	Trend               string   `json:"trend"`
	Volatility          string   `json:"volatility"`
	Volume              string   `json:"volume"`
	Sentiment           string   `json:"sentiment"`
	ConfidenceScore     float64  `json:"confidenceScore"`
	GamePlan            string   `json:"gamePlan"`
	FundamentalAnalysis string   `json:"fundamentalAnalysis"`
	Sources             []Source `json:"sources,omitempty"`
}

// Sentiment is the closed set of news sentiments.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// NewsArticle is one validated news item.
type NewsArticle struct {
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Sentiment   Sentiment `json:"sentiment"`
	PublishedAt string    `json:"published_at"`
}

// NewsBatch is the valid subset of a news array, in received order.
type NewsBatch struct {
	Articles []NewsArticle
	Received int
	Dropped  int
}

type fieldRule struct {
	name string
	kind gjson.Type
}

var analysisFields = []fieldRule{
	{"market_asset", gjson.String},
	{"trend", gjson.String},
	{"volatility", gjson.String},
	{"volume", gjson.String},
	{"sentiment", gjson.String},
	{"confidenceScore", gjson.Number},
	{"gamePlan", gjson.String},
	{"fundamentalAnalysis", gjson.String},
}

var newsFields = []fieldRule{
	{"title", gjson.String},
	{"snippet", gjson.String},
	{"content", gjson.String},
	{"source", gjson.String},
	{"sentiment", gjson.String},
	{"published_at", gjson.String},
}

var validSentiments = map[Sentiment]struct{}{
	SentimentBullish: {},
	SentimentBearish: {},
	SentimentNeutral: {},
}

// ValidateAnalysis checks the eight required analysis fields and decodes
// them. Values are not range- or enum-checked. Optional sources keep only
// entries carrying both uri and title.
func ValidateAnalysis(raw []byte, lang Language) (AnalysisResult, error) {
	if !gjson.ValidBytes(raw) {
		return AnalysisResult{}, invalidShape(lang, &ShapeError{Reason: "invalid json"})
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return AnalysisResult{}, invalidShape(lang, &ShapeError{Reason: "expected a json object"})
	}
	fields := objectFields(doc)
	if shapeErr := checkFields(fields, analysisFields); shapeErr != nil {
		return AnalysisResult{}, invalidShape(lang, shapeErr)
	}

	result := AnalysisResult{
		MarketAsset:         fields["market_asset"].Str,
		Trend:               fields["trend"].Str,
		Volatility:          fields["volatility"].Str,
		Volume:              fields["volume"].Str,
		Sentiment:           fields["sentiment"].Str,
		ConfidenceScore:     fields["confidenceScore"].Num,
		GamePlan:            fields["gamePlan"].Str,
		FundamentalAnalysis: fields["fundamentalAnalysis"].Str,
	}
	if sources := fields["sources"]; sources.IsArray() {
		for _, item := range sources.Array() {
			entry := objectFields(item)
			uri := entry["uri"]
			title := entry["title"]
			if uri.Type == gjson.String && title.Type == gjson.String && uri.Str != "" && title.Str != "" {
				result.Sources = append(result.Sources, Source{URI: uri.Str, Title: title.Str})
			}
		}
	}
	return result, nil
}

// ValidateNewsArticle checks one news element.
func ValidateNewsArticle(raw []byte) (NewsArticle, error) {
	if !gjson.ValidBytes(raw) {
		return NewsArticle{}, &ShapeError{Reason: "invalid json"}
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return NewsArticle{}, &ShapeError{Reason: "expected a json object"}
	}
	fields := objectFields(doc)
	if shapeErr := checkFields(fields, newsFields); shapeErr != nil {
		return NewsArticle{}, shapeErr
	}
	sentiment := Sentiment(fields["sentiment"].Str)
	if _, ok := validSentiments[sentiment]; !ok {
		return NewsArticle{}, &ShapeError{Reason: fmt.Sprintf("unknown sentiment %q", sentiment)}
	}
	return NewsArticle{
		Title:       fields["title"].Str,
		Snippet:     fields["snippet"].Str,
		Content:     fields["content"].Str,
		Source:      fields["source"].Str,
		Sentiment:   sentiment,
		PublishedAt: fields["published_at"].Str,
	}, nil
}

// ValidateNewsBatch validates every element of a news array independently and
// keeps the valid ones in order. A non-array value is an error; invalid
// elements never are.
func ValidateNewsBatch(raw []byte, lang Language, logger *slog.Logger) (NewsBatch, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !gjson.ValidBytes(raw) {
		return NewsBatch{}, invalidShape(lang, &ShapeError{Reason: "invalid json"})
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return NewsBatch{}, invalidShape(lang, &ShapeError{Reason: "expected a json array"})
	}

	items := doc.Array()
	batch := NewsBatch{Articles: make([]NewsArticle, 0, len(items)), Received: len(items)}
	for i, item := range items {
		article, err := ValidateNewsArticle([]byte(item.Raw))
		if err != nil {
			logger.Debug("news article dropped", "index", i, "reason", err.Error())
			continue
		}
		batch.Articles = append(batch.Articles, article)
	}
	batch.Dropped = batch.Received - len(batch.Articles)
	if batch.Dropped > 0 {
		logger.Warn("news articles filtered out due to invalid structure",
			"received", batch.Received,
			"kept", len(batch.Articles),
			"dropped", batch.Dropped,
		)
	}
	return batch, nil
}

// objectFields collects the members of an object. A repeated key keeps its
// last value, as a JSON decoder would.
func objectFields(doc gjson.Result) map[string]gjson.Result {
	fields := make(map[string]gjson.Result)
	if !doc.IsObject() {
		return fields
	}
	doc.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = value
		return true
	})
	return fields
}

func checkFields(fields map[string]gjson.Result, rules []fieldRule) *ShapeError {
	var shapeErr ShapeError
	for _, rule := range rules {
		value, ok := fields[rule.name]
		switch {
		case !ok:
			shapeErr.Missing = append(shapeErr.Missing, rule.name)
		case value.Type != rule.kind:
			shapeErr.Mistyped = append(shapeErr.Mistyped, rule.name)
		}
	}
	if len(shapeErr.Missing) == 0 && len(shapeErr.Mistyped) == 0 {
		return nil
	}
	return &shapeErr
}

func invalidShape(lang Language, shapeErr *ShapeError) error {
	return WrapError(ErrCodeInvalidResponseShape, Translate(lang, "error_invalid_shape"), shapeErr)
}
