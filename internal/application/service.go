// Package application holds the use cases. Every operation takes the caller
// as an explicit policy.Principal and evaluates policy before touching data.
package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
	"github.com/oksasatya/shamba-farm/pkg/validation"
)

// ClientInfo describes the HTTP client for audit entries.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// validate runs the binding rules of in and returns a field-keyed ValidationError.
func validate(in any) error {
	if err := validation.Struct(in); err != nil {
		return apperr.Validation(validation.ToDetails(err))
	}
	return nil
}

// mergeFields folds err's field map into dst. Non-validation errors are returned.
func mergeFields(dst map[string]string, err error) error {
	if err == nil {
		return nil
	}
	fields := apperr.Fields(err)
	if fields == nil {
		return err
	}
	for k, v := range fields {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return nil
}

// recordAudit appends an audit entry. Failures are logged and never fail the request.
func recordAudit(ctx context.Context, repo repository.AuditRepository, logger *logrus.Logger, e *entity.AuditLog) {
	if repo == nil {
		return
	}
	if err := repo.Insert(ctx, e); err != nil {
		helpers.LogError(logger, "audit insert failed", err, logrus.Fields{"action": e.Action, "user_id": e.UserID})
	}
}
