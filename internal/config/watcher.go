package config

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"telemetry-backend/internal/logging"
)

// Overrides are the settings that may change while the process runs.
type Overrides struct {
	LogLevel string `yaml:"logLevel"`
}

// Watcher applies overrides from a YAML file whenever it changes. Only the
// log level is dynamic; everything else is fixed at startup.
type Watcher struct {
	path    string
	level   zap.AtomicLevel
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching path and applies the current file content
// immediately when it exists.
func NewWatcher(path string, level zap.AtomicLevel, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		level:   level,
		logger:  logger,
		watcher: fsWatcher,
		done:    make(chan struct{}),
	}
	w.apply()
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.apply()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) apply() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("failed to read overrides file", zap.String("path", w.path), zap.Error(err))
		return
	}

	var overrides Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		w.logger.Warn("failed to parse overrides file", zap.String("path", w.path), zap.Error(err))
		return
	}

	if overrides.LogLevel != "" {
		newLevel := logging.ParseLevel(overrides.LogLevel)
		if w.level.Level() != newLevel {
			w.level.SetLevel(newLevel)
			w.logger.Info("log level updated", zap.String("level", newLevel.String()))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
