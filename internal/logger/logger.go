package logger

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/charliek/errboard/internal/snapshot"
)

const timestampFormat = "2006-01-02 15:04:05"

func callerPrettyfier(frame *runtime.Frame) (function string, file string) {
	return "", fmt.Sprintf("%s:%d", path.Base(frame.File), frame.Line)
}

// SetupLogger configures the standard logrus logger. format is "json" or
// "text"; an unknown level falls back to info.
func SetupLogger(level, format string) {
	loggerLevel, err := log.ParseLevel(level)
	log.SetReportCaller(true)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&log.JSONFormatter{
			CallerPrettyfier: callerPrettyfier,
			TimestampFormat:  timestampFormat,
		})
	} else {
		log.SetFormatter(&log.TextFormatter{
			CallerPrettyfier: callerPrettyfier,
			TimestampFormat:  timestampFormat,
			FullTimestamp:    true,
		})
	}

	if err != nil {
		log.Infof("Level setup default INFO, err: %v", err)
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(loggerLevel)
	}
}

// SetOutput redirects log output, e.g. away from a terminal UI.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func LogSnapshotLoaded(path string, stats snapshot.Stats) {
	log.WithFields(log.Fields{
		"path":   path,
		"calls":  stats.Calls,
		"events": stats.Events,
	}).Info("Snapshot loaded")
}

func LogSnapshotError(path string, err error) {
	log.WithFields(log.Fields{
		"path":  path,
		"error": err,
	}).Error("Failed to load snapshot")
}

func LogEventViewed(index int, source, viewer string) {
	log.WithFields(log.Fields{
		"index":  index,
		"source": source,
		"viewer": viewer,
	}).Debug("Stack event viewed")
}
