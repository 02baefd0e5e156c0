package remote

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xrsl/careerflow/pkg/gh"
	"github.com/xrsl/careerflow/pkg/retry"
)

// pgTransient lists SQLSTATEs after which the same query may succeed.
// Class 08 (connection exception) is matched by prefix.
var pgTransient = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"53300": true, // too_many_connections
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
}

// classifyPG marks err transient when repeating the query may help.
func classifyPG(err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, context.Canceled) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "08") || pgTransient[pgErr.Code] {
			return retry.Transient(err)
		}
		return err
	}
	var netErr net.Error
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) || errors.As(err, &netErr) {
		return retry.Transient(err)
	}
	return err
}

// classifyGH marks err transient when gh failed on the network or the API.
func classifyGH(err error) error {
	if gh.IsTransient(err) {
		return retry.Transient(err)
	}
	return err
}
