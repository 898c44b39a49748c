package evaluator

import "go.uber.org/fx"

var Module = fx.Module("notification.evaluator",
	fx.Provide(New),
)
