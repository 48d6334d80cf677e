package feed

import "time"

// Config holds merchant feed settings.
type Config struct {
	MerchantID      string        `env:"MERCHANT_ID"`
	CredentialsFile string        `env:"MERCHANT_CREDENTIALS_FILE"`
	Endpoint        string        `env:"MERCHANT_ENDPOINT" envDefault:"https://shoppingcontent.googleapis.com/content/v2.1"`
	Currency        string        `env:"MERCHANT_CURRENCY" envDefault:"USD"`
	ContentLanguage string        `env:"MERCHANT_CONTENT_LANGUAGE" envDefault:"es"`
	TargetCountry   string        `env:"MERCHANT_TARGET_COUNTRY" envDefault:"US"`
	LinkTemplate    string        `env:"MERCHANT_LINK_TEMPLATE"`
	CategoryMapFile string        `env:"MERCHANT_CATEGORY_MAP"`
	BatchSize       int           `env:"MERCHANT_BATCH_SIZE" envDefault:"250"`
	Concurrency     int           `env:"MERCHANT_CONCURRENCY" envDefault:"2"`
	RateLimit       int           `env:"MERCHANT_RATE_LIMIT" envDefault:"10"`
	RateWindow      time.Duration `env:"MERCHANT_RATE_WINDOW" envDefault:"1s"`
	Timeout         time.Duration `env:"MERCHANT_TIMEOUT" envDefault:"30s"`
	MaxRetries      int           `env:"MERCHANT_MAX_RETRIES" envDefault:"3"`
}

// Configured reports whether pushing to the Content API is possible.
func (c Config) Configured() bool {
	return c.MerchantID != ""
}

const (
	defaultBatchSize   = 250
	maxBatchSize       = 1000
	defaultConcurrency = 2
)
