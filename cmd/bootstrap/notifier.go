package bootstrap

import (
	"context"
	"log/slog"

	"gamezone-booking/internal/handler/api"
	"gamezone-booking/internal/infra/notifier"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		fx.Annotate(
			notifier.NewHub,
			fx.As(fx.Self()),
			fx.As(new(api.EventSubscriber)),
		),
		NewEventPublisher,
	),
)

// NewEventPublisher fans events out to realtime clients, the log and, when
// configured, the message broker.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, hub *notifier.Hub, logger *slog.Logger) (shared.EventPublisher, error) {
	sinks := []shared.EventPublisher{hub, notifier.NewLogSink(logger)}

	if cfg.AMQP.URL != "" {
		broker, err := notifier.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return broker.Close()
			},
		})
		sinks = append(sinks, broker)
		logger.Info("publishing events to broker", "exchange", cfg.AMQP.Exchange)
	}

	return notifier.NewFanout(sinks...), nil
}
