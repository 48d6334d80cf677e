// Package config loads service configuration from the process environment.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Load parses the environment into any struct annotated with `env` tags,
//     after a one-time attempt to read the default `.env` file. Each config
//     type is parsed once and cached for the lifetime of the process.
//   - LoadEnv reads one or more explicit `.env` files.
//   - Lookup returns a single setting or a fallback when it is absent or empty.
//
// # Usage
//
//	type ServiceConfig struct {
//		MongoURI string `env:"MONGODB_URI,required"`
//		DBName   string `env:"DB_NAME" envDefault:"autopartes"`
//		Port     int    `env:"PORT" envDefault:"3000"`
//	}
//
//	var cfg ServiceConfig
//	if err := config.Load(&cfg); err != nil {
//		// a required setting is missing: refuse to start
//	}
//
//	collection := config.Lookup("COLLECTION_NAME", "productos")
//
// # Error Handling
//
// Missing required settings and malformed values surface as ErrParsingConfig
// joined with the parser error. Use errors.Is to check.
//
// # Testing Helpers
//
// ResetCache clears cached config types so tests can reload after changing
// the environment with t.Setenv.
package config
