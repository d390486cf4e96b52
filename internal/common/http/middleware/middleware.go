package middleware

import (
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

type AppMiddleware struct {
	conf      config.Config
	cacheRepo repositories.CacheRepository
}

func NewMiddleware(conf config.Config, cacheRepo repositories.CacheRepository) AppMiddleware {
	return AppMiddleware{
		conf:      conf,
		cacheRepo: cacheRepo,
	}
}
