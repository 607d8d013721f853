package main

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	auditfile "github.com/vshulcz/daytally/internal/adapters/audit/file"
	"github.com/vshulcz/daytally/internal/adapters/audit/webhook"
	"github.com/vshulcz/daytally/internal/adapters/persistence/file"
	memrepo "github.com/vshulcz/daytally/internal/adapters/repository/memory"
	pgrepo "github.com/vshulcz/daytally/internal/adapters/repository/postgres"
	"github.com/vshulcz/daytally/internal/config"
	"github.com/vshulcz/daytally/internal/misc"
	"github.com/vshulcz/daytally/internal/ports"
	"github.com/vshulcz/daytally/internal/services/audit"
)

func buildRepo(cfg config.ServerConfig, logger *zap.Logger) ports.CounterRepo {
	ctx := context.Background()
	if cfg.DSN != "" {
		db, err := sql.Open("postgres", cfg.DSN)
		if err == nil {
			op := func() error {
				if err := db.Ping(); err != nil {
					return err
				}
				return pgrepo.Migrate(db)
			}
			if err = misc.Retry(ctx, misc.DefaultBackoff, pgrepo.IsRetryable, op); err == nil {
				logger.Info("db connected & migrated")
				return pgrepo.New(db)
			}
		}
		logger.Warn("postgres init failed, falling back to file-backed memory", zap.Error(err))
	}

	persister := file.New(cfg.File)
	repo := memrepo.New(persister)
	if err := persister.Restore(ctx, repo); err != nil {
		logger.Warn("restore failed, starting empty", zap.String("file", cfg.File), zap.Error(err))
	} else {
		logger.Info("restore ok", zap.String("file", cfg.File))
	}
	return repo
}

func buildAuditTrail(cfg config.ServerConfig, logger *zap.Logger) *audit.Subject {
	subject := audit.NewSubject()
	subject.SetErrorHandler(func(err error) {
		logger.Warn("audit notify failed", zap.Error(err))
	})

	if cfg.AuditFile != "" {
		subject.Attach(auditfile.New(cfg.AuditFile))
		logger.Info("audit file enabled", zap.String("file", cfg.AuditFile))
	}
	if cfg.AuditURL != "" {
		client, err := webhook.New(cfg.AuditURL, nil)
		if err != nil {
			logger.Warn("audit webhook disabled", zap.String("url", cfg.AuditURL), zap.Error(err))
		} else {
			subject.Attach(client)
			logger.Info("audit webhook enabled", zap.String("url", cfg.AuditURL))
		}
	}
	return subject
}
