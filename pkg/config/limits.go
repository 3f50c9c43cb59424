package config

import (
	"fmt"
	"slices"

	"github.com/creasty/defaults"
)

// AssetClass is a category of tradable instrument.
type AssetClass string

const (
	AssetCrypto    AssetClass = "crypto"
	AssetStock     AssetClass = "stock"
	AssetCommodity AssetClass = "commodity"
)

// AssetClasses lists every asset class in a stable order.
var AssetClasses = []AssetClass{AssetCrypto, AssetStock, AssetCommodity}

// TradingLimitsConfig holds risk limits and the default universe per asset class.
// Fractions are conventionally in [0,1]; range checks belong to the risk module.
type TradingLimitsConfig struct {
	MaxPositionSize           float64 `yaml:"maxPositionSize" env:"MAX_POSITION_SIZE" envDefault:"0.1"`
	MaxDailyLoss              float64 `yaml:"maxDailyLoss" env:"MAX_DAILY_LOSS" envDefault:"0.02"`
	MaxCorrelationThreshold   float64 `yaml:"maxCorrelationThreshold" env:"MAX_CORRELATION" envDefault:"0.8"`
	MinVolatilityThreshold    float64 `yaml:"minVolatilityThreshold" env:"MIN_VOLATILITY" envDefault:"0.005"`
	HistoricalDays            int     `yaml:"historicalDays" env:"HISTORICAL_DAYS" envDefault:"365"`
	DataUpdateIntervalSeconds int     `yaml:"dataUpdateIntervalSeconds" env:"DATA_UPDATE_INTERVAL" envDefault:"300"`

	CryptoSymbols    []string `yaml:"cryptoSymbols" default:"[\"BTC/USDT\",\"ETH/USDT\",\"SOL/USDT\"]"`
	StockSymbols     []string `yaml:"stockSymbols" default:"[\"AAPL\",\"MSFT\",\"GOOGL\"]"`
	CommoditySymbols []string `yaml:"commoditySymbols" default:"[\"GC=F\",\"SI=F\",\"CL=F\"]"`
}

// ParseTradingLimits reads limits from src. A malformed numeric value yields *ParseError.
func ParseTradingLimits(src Source) (TradingLimitsConfig, error) {
	var l TradingLimitsConfig
	if err := bind(src, &l); err != nil {
		return TradingLimitsConfig{}, err
	}
	if err := l.applySymbolDefaults(); err != nil {
		return TradingLimitsConfig{}, err
	}
	return l, nil
}

// applySymbolDefaults substitutes the built-in list for every empty symbol list.
func (l *TradingLimitsConfig) applySymbolDefaults() error {
	for _, s := range []*[]string{&l.CryptoSymbols, &l.StockSymbols, &l.CommoditySymbols} {
		if len(*s) == 0 {
			*s = nil
		}
	}
	if err := defaults.Set(l); err != nil {
		return fmt.Errorf("apply symbol defaults: %w", err)
	}
	return nil
}

// Symbols returns a copy of the symbol list for class, or nil for an unknown class.
func (l TradingLimitsConfig) Symbols(class AssetClass) []string {
	switch class {
	case AssetCrypto:
		return slices.Clone(l.CryptoSymbols)
	case AssetStock:
		return slices.Clone(l.StockSymbols)
	case AssetCommodity:
		return slices.Clone(l.CommoditySymbols)
	default:
		return nil
	}
}

func (l TradingLimitsConfig) clone() TradingLimitsConfig {
	l.CryptoSymbols = slices.Clone(l.CryptoSymbols)
	l.StockSymbols = slices.Clone(l.StockSymbols)
	l.CommoditySymbols = slices.Clone(l.CommoditySymbols)
	return l
}
