package sizing

import (
	"fmt"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

// NewStrategy builds the sizing strategy selected by the configuration.
func NewStrategy(cfg *config.SizingConfig) (Strategy, error) {
	if cfg == nil {
		cfg = config.DefaultSizingConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Strategy {
	case config.StrategyFixed:
		return NewFixedStrategy(cfg), nil
	case config.StrategyVolatility:
		return NewVolatilityScaledStrategy(cfg), nil
	case config.StrategyKelly:
		return NewKellyStrategy(cfg), nil
	case config.StrategyStreak:
		return NewStreakStrategy(cfg), nil
	case config.StrategyBlended:
		return NewBlendedStrategy(cfg), nil
	default:
		return nil, engineerrors.NewInvalidConfigurationError("sizing",
			fmt.Sprintf("unknown sizing strategy %q", cfg.Strategy))
	}
}
