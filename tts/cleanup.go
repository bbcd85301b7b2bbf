package tts

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AudioCleanup periodically deletes synthesized audio files that
// haven't been touched for the configured number of days. They are a
// derived cache and get regenerated on demand.
func AudioCleanup(t time.Duration) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Audio cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			dir := viper.GetString("tts.audio_dir")
			maxAge := time.Duration(viper.GetInt("tts.cleanup_after_days")) * 24 * time.Hour

			entries, err := os.ReadDir(dir)
			if err != nil {
				zap.L().Error("Failed to read audio dir for cleanup", zap.Error(err))
				continue
			}

			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".mp3" {
					continue
				}

				info, err := e.Info()
				if err != nil {
					continue
				}

				if time.Since(info.ModTime()) > maxAge {
					if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
						zap.L().Error("Failed to remove stale audio file", zap.String("file", e.Name()), zap.Error(err))
					}
				}
			}
		}
	}()
}
