package bootstrap

import (
	"context"
	"log/slog"

	"tutorbook/internal/infra/notify"
	"tutorbook/internal/infra/paygate"
	"tutorbook/internal/pkg/config"
	"tutorbook/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			NewNotificationDispatcher,
			fx.As(new(commands.NotificationDispatcher)),
		),
	),
)

func NewPaymentGateway(cfg config.Config) *paygate.Client {
	return paygate.NewClient(cfg.Payment)
}

func NewNotificationDispatcher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *notify.KafkaDispatcher {
	dispatcher := notify.NewKafkaDispatcher(logger, cfg.Notify)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return dispatcher.Close()
		},
	})

	return dispatcher
}
