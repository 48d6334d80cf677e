package catalog

import "time"

// Config holds repository settings.
type Config struct {
	Collection       string        `env:"COLLECTION_NAME" envDefault:"productos"`
	OperationTimeout time.Duration `env:"MONGODB_OPERATION_TIMEOUT" envDefault:"10s"`
}

const (
	defaultCollection       = "productos"
	defaultOperationTimeout = 10 * time.Second
)
