package bootstrap

import (
	"net/http"

	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/pkg/config"
	"rewardgate/internal/ssv"
	"rewardgate/internal/usecase/commands"

	"go.uber.org/fx"
)

var SSVModule = fx.Module("ssv",
	fx.Provide(
		NewKeyCache,
		fx.Annotate(
			ssv.NewVerifier,
			fx.As(new(commands.CallbackVerifier)),
		),
	),
)

func NewKeyCache(cfg config.Config, clk clock.Clock) *ssv.KeyCache {
	client := &http.Client{Timeout: cfg.SSV.FetchTimeout}
	return ssv.NewKeyCache(client, cfg.SSV.KeysURL, cfg.SSV.KeyCacheTTL, clk)
}
