package logsink

import (
	stderrs "errors"
	"path/filepath"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	const op errors.Op = "logsink.validateConfig"
	if cfg == nil {
		return newConfigurationError(op, errMsgConfigInvalid, ErrInvalidConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return newConfigurationError(op, errMsgConfigInvalid, stderrs.Join(ErrInvalidConfig, err))
	}

	if cfg.FileLogging && filepath.IsAbs(cfg.RelLogFileDir) {
		return newConfigurationError(op, errMsgLogDirNotRel+" RelLogFileDir="+cfg.RelLogFileDir, ErrInvalidConfig)
	}

	return nil
}
