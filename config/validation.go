package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var supportedDBTypes = map[string]bool{
	"postgres": true,
	"sqlite":   true,
	"mysql":    true,
}

// ValidateConfig checks the loaded values and returns every problem at once
func ValidateConfig(cfg *Config) error {
	var errs []error

	if !supportedDBTypes[cfg.DBType] {
		errs = append(errs, ValidationError{Field: "DB_TYPE", Message: fmt.Sprintf("unsupported database type %q", cfg.DBType)})
	}
	if cfg.DBType == "sqlite" && cfg.DBDSN == "" && cfg.DBName == "" {
		errs = append(errs, ValidationError{Field: "DB_NAME", Message: "sqlite needs a file name or DB_DSN"})
	}
	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must not be empty"})
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "jwt_secret secret is required"})
	}
	if cfg.Env == Production && cfg.DBType != "sqlite" && cfg.DBPassword == "" {
		errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "db_password secret is required in production"})
	}

	switch cfg.ImageStorage {
	case "local":
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{Field: "MEDIA_ROOT", Message: "must not be empty"})
		}
	case "s3":
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "required when IMAGE_STORAGE=s3"})
		}
	default:
		errs = append(errs, ValidationError{Field: "IMAGE_STORAGE", Message: fmt.Sprintf("unknown driver %q", cfg.ImageStorage)})
	}

	if cfg.RecipeCreateLimit < 0 || cfg.DownloadLimit < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "limits must not be negative"})
	}

	return errors.Join(errs...)
}
