package bootstrap

import (
	"gamezone-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	JWTModule,
	StoreModule,
	NotifierModule,
	components.UseCaseModule,
	components.HandlerModule,
	SweeperModule,
)
