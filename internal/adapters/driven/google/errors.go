package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// wrapError converts a Google API error into the core's error model:
// authorization rejections wrap domain.ErrUnauthorized (triggering the
// refresh-retry cycle), server-side and network failures become
// transient faults, and everything else passes through as a
// provider_rejected fault carrying Google's own message.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized:
			return fmt.Errorf("google: %s: %w", gerr.Message, domain.ErrUnauthorized)
		case gerr.Code == http.StatusTooManyRequests:
			return domain.NewFault(domain.FaultTransient, "google rate limited", err)
		case gerr.Code >= http.StatusInternalServerError:
			return domain.NewFault(domain.FaultTransient,
				fmt.Sprintf("google responded %d", gerr.Code), err)
		default:
			return domain.NewFault(domain.FaultProviderRejected, gerr.Message, err)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return domain.NewFault(domain.FaultTransient, "google unreachable", err)
}
