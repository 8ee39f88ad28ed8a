package frxai

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultNewsAsset is used when no asset is given.
const DefaultNewsAsset = "EUR/USD"

// NewsFeed is the result of a news request. Dropped counts the articles that
// failed validation.
type NewsFeed struct {
	Asset    string        `json:"asset"`
	Articles []NewsArticle `json:"articles"`
	Dropped  int           `json:"dropped"`
}

// NormalizeAsset trims and upper-cases an asset symbol, defaulting to
// DefaultNewsAsset.
func NormalizeAsset(asset string) string {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if asset == "" {
		return DefaultNewsAsset
	}
	return asset
}

// FetchNews returns recent news for asset in lang. Only retry exhaustion is
// an error: an unparseable or non-array response yields an empty feed, and
// invalid articles are dropped individually.
//
// Identical requests in flight share one remote call. A caller whose context
// ends stops waiting, but the shared call runs to completion.
func (c *Core) FetchNews(ctx context.Context, asset string, lang Language) (feed *NewsFeed, err error) {
	lang = normalizeLanguage(lang)
	asset = NormalizeAsset(asset)
	ctx, span := c.tracer.Start(ctx, "frxai.FetchNews", trace.WithAttributes(
		attribute.String("frxai.asset", asset),
		attribute.String("frxai.language", string(lang)),
	))
	start := time.Now()
	defer func() { c.finish(span, operationNews, start, err) }()

	if c.gen == nil {
		return nil, c.unavailable(lang)
	}

	key := string(lang) + "|" + asset
	ch := c.news.DoChan(key, func() (any, error) {
		return c.fetchNews(context.WithoutCancel(ctx), asset, lang)
	})
	select {
	case <-ctx.Done():
		return nil, WrapError(ErrCodeNewsFetchFailed, Translate(lang, "news_error_retries", asset), ctx.Err())
	case res := <-ch:
		span.SetAttributes(attribute.Bool("frxai.shared", res.Shared))
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.(*NewsFeed)
		return &NewsFeed{
			Asset:    shared.Asset,
			Articles: slices.Clone(shared.Articles),
			Dropped:  shared.Dropped,
		}, nil
	}
}

func (c *Core) fetchNews(ctx context.Context, asset string, lang Language) (*NewsFeed, error) {
	resp, err := c.generate(ctx, operationNews, GenerateRequest{
		Prompt:      NewsPrompt(asset, lang),
		Temperature: c.temperature,
		WebSearch:   c.webSearch,
	})
	if err != nil {
		return nil, WrapError(ErrCodeNewsFetchFailed, Translate(lang, "news_error_retries", asset), err)
	}

	feed := &NewsFeed{Asset: asset, Articles: []NewsArticle{}}
	payload, err := ExtractJSON(resp.Text, lang)
	if err != nil {
		c.logMalformed(operationNews, err)
		return feed, nil
	}
	batch, err := ValidateNewsBatch(payload, lang, c.logger.With("asset", asset))
	if err != nil {
		c.logger.Error("news response was not a valid array", "asset", asset, "err", err)
		return feed, nil
	}

	feed.Articles = batch.Articles
	feed.Dropped = batch.Dropped
	c.metrics.dropped.Add(float64(batch.Dropped))
	c.logger.Info("news fetched",
		"asset", asset,
		"language", lang,
		"articles", len(feed.Articles),
		"dropped", feed.Dropped,
	)
	return feed, nil
}
