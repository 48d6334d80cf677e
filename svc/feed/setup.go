package feed

import (
	"context"
)

// NewFromConfig builds the mapper from cfg and, when a merchant id is set,
// an authenticated ContentClient. Extra options are applied last.
func NewFromConfig(ctx context.Context, cfg Config, source Source, opts ...AdapterOption) (*Adapter, error) {
	categories, err := LoadCategoryMap(cfg.CategoryMapFile)
	if err != nil {
		return nil, err
	}
	mapper, err := NewMapper(cfg.Currency, cfg.ContentLanguage, cfg.TargetCountry,
		WithLinkTemplate(cfg.LinkTemplate),
		WithCategoryMap(categories),
	)
	if err != nil {
		return nil, err
	}

	base := []AdapterOption{
		WithBatchSize(cfg.BatchSize),
		WithConcurrency(cfg.Concurrency),
	}
	if cfg.Configured() {
		httpClient, err := NewGoogleHTTPClient(ctx, cfg.CredentialsFile, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		base = append(base, WithClient(NewContentClient(cfg.MerchantID,
			WithHTTPClient(httpClient),
			WithEndpoint(cfg.Endpoint),
			WithRequestTimeout(cfg.Timeout),
			WithMaxRetries(cfg.MaxRetries),
		)))
	}

	return NewAdapter(source, mapper, append(base, opts...)...), nil
}
