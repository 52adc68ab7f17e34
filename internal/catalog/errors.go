package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/requestctx"
)

// ErrMissingName is returned when a route carries no identifier.
var ErrMissingName = errors.New("catalog: name not provided in route")

// User-facing messages of the failed states.
const (
	MsgListFailed          = "Failed to load Pokemon list."
	MsgPokemonNameMissing  = "Pokemon name not provided in route."
	msgPokemonFailedFormat = "Failed to load details for Pokemon: %s."
	MsgAbilityNameMissing  = "Ability name not provided in route."
	msgAbilityFailedFormat = "Failed to load details for ability: %s."
)

// routeName validates a route parameter.
func routeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrMissingName
	}
	return name, nil
}

// logFetchFailure records a failed upstream fetch. Cancellation means the
// navigation was superseded, so it is not worth a warning.
func logFetchFailure(ctx context.Context, msg string, err error, fields ...zap.Field) {
	logger := requestctx.Logger(ctx)
	fields = append(fields, zap.Error(err))
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		logger.Debug(msg+" (navigation superseded)", fields...)
		return
	}
	logger.Warn(msg, fields...)
}
