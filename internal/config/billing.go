package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// FineOverflowCeiling charges the highest configured fine once lateness
	// runs past the last fine slab.
	FineOverflowCeiling = "ceiling"
	// FineOverflowReject refuses to price lateness beyond the last fine slab.
	FineOverflowReject = "reject"
)

// BillingConfig carries the billing policy that operators may tune at runtime.
type BillingConfig struct {
	DueDays             int    `mapstructure:"dueDays"`
	FineOverflowPolicy  string `mapstructure:"fineOverflowPolicy"`
	FineGracePeriod     bool   `mapstructure:"fineGracePeriod"`
	BillNumberTemplate  string `mapstructure:"billNumberTemplate"`
	VerifyRatePerMinute int    `mapstructure:"verifyRatePerMinute"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		DueDays:             15,
		FineOverflowPolicy:  FineOverflowCeiling,
		BillNumberTemplate:  "EB-{YYYY}{MM}-{SEQ6}",
		VerifyRatePerMinute: 10,
	}
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/gridbill/config")
	v.AddConfigPath("/etc/gridbill")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GRIDBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.dueDays", defaults.DueDays)
	v.SetDefault("billing.fineOverflowPolicy", defaults.FineOverflowPolicy)
	v.SetDefault("billing.fineGracePeriod", defaults.FineGracePeriod)
	v.SetDefault("billing.billNumberTemplate", defaults.BillNumberTemplate)
	v.SetDefault("billing.verifyRatePerMinute", defaults.VerifyRatePerMinute)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	cfg = normalizeBillingConfig(cfg)
	if err := ValidateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticBillingConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			zap.L().Warn("billing config reload failed", zap.Error(err))
			return
		}
		if err := holder.Store(updated); err != nil {
			zap.L().Warn("invalid billing config ignored", zap.Error(err))
			return
		}
		zap.L().Info("billing config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticBillingConfigHolder returns a holder that never reloads.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

// Store swaps the active settings after normalizing and validating them.
func (h *BillingConfigHolder) Store(cfg BillingConfig) error {
	cfg = normalizeBillingConfig(cfg)
	if err := ValidateBillingConfig(cfg); err != nil {
		return err
	}
	h.current.Store(cfg)
	return nil
}

func normalizeBillingConfig(cfg BillingConfig) BillingConfig {
	cfg.FineOverflowPolicy = strings.ToLower(strings.TrimSpace(cfg.FineOverflowPolicy))
	cfg.BillNumberTemplate = strings.TrimSpace(cfg.BillNumberTemplate)
	return cfg
}

func ValidateBillingConfig(cfg BillingConfig) error {
	if cfg.DueDays <= 0 {
		return errors.New("billing.dueDays must be positive")
	}
	switch cfg.FineOverflowPolicy {
	case FineOverflowCeiling, FineOverflowReject:
	default:
		return fmt.Errorf("billing.fineOverflowPolicy %q is not supported", cfg.FineOverflowPolicy)
	}
	if !strings.Contains(cfg.BillNumberTemplate, "{SEQ") {
		return errors.New("billing.billNumberTemplate must contain a {SEQ} token")
	}
	if cfg.VerifyRatePerMinute <= 0 {
		return errors.New("billing.verifyRatePerMinute must be positive")
	}
	return nil
}
