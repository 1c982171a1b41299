package config

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DecayTuning is the slice of configuration the decay job re-reads on every
// run. When CONFIG_FILE points at a yaml file, edits to its decay block take
// effect without a restart. Everything else in Config requires one.
type DecayTuning struct {
	Interval       string
	InactivityDays int
	Step           int
	BatchSize      int
}

type TuningHolder struct {
	current atomic.Value
}

func (h *TuningHolder) Get() DecayTuning {
	return h.current.Load().(DecayTuning)
}

// NewTuningHolder seeds the holder from the environment-derived Config and,
// when CONFIG_FILE is set, keeps it in sync with the file's decay block.
func NewTuningHolder(cfg Config, log *zap.Logger) *TuningHolder {
	base := DecayTuning{
		Interval:       cfg.DecayInterval,
		InactivityDays: cfg.DecayInactivityDays,
		Step:           cfg.DecayStep,
		BatchSize:      cfg.DecayBatchSize,
	}

	holder := &TuningHolder{}
	holder.current.Store(base)

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return holder
	}

	log = log.Named("config.tuning")
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		log.Warn("config file unreadable, decay tuning stays static", zap.Error(err))
		return holder
	}

	// Always rebuild from the env-derived base so a key removed from the
	// file falls back instead of sticking at its last file value.
	apply := func() {
		next := base
		if v.IsSet("decay.interval") {
			next.Interval = v.GetString("decay.interval")
		}
		if v.IsSet("decay.inactivity_days") {
			next.InactivityDays = v.GetInt("decay.inactivity_days")
		}
		if v.IsSet("decay.step") {
			next.Step = v.GetInt("decay.step")
		}
		if v.IsSet("decay.batch_size") {
			next.BatchSize = v.GetInt("decay.batch_size")
		}
		holder.current.Store(next)
	}
	apply()

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		apply()
		log.Info("decay tuning reloaded", zap.String("file", e.Name))
	})

	return holder
}
