package log

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// Init builds the process logger. prod selects the JSON production config.
func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	logger = l
	return l, nil
}

func L() *zap.Logger { return logger }

func Sync() { _ = logger.Sync() }
