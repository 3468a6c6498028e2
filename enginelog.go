// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrInvalidPath reports a log file path that cannot cross the engine
	// boundary. The engine was not called.
	ErrInvalidPath = errors.New("tdjson: log file path contains NUL byte")

	// ErrEngineRejected reports a valid log file path refused by the engine.
	ErrEngineRejected = errors.New("tdjson: engine rejected log file path")

	// ErrOutOfRange reports a verbosity level outside [1, 1024].
	ErrOutOfRange = errors.New("tdjson: log verbosity level must be between 1 and 1024")
)

// LogError is returned by the engine log configuration functions.
type LogError struct {
	Op  string
	Err error
}

func (e *LogError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *LogError) Unwrap() error { return e.Err }

// Level is an engine log verbosity level.
// Values above [LevelVerbose] up to [MaxLevel] enable more logging.
type Level int

const (
	LevelFatal Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelVerbose

	// MaxLevel is the highest level the engine accepts.
	MaxLevel Level = 1024
)

var levelNames = [...]string{"fatal", "error", "warning", "info", "debug", "verbose"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return strconv.Itoa(int(l))
}

// ParseLevel parses a level name or a decimal level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &LogError{Op: "parse level", Err: err}
	}
	return Level(n), nil
}

// SetLogFile sets the file the engine writes its log to.
func SetLogFile(e LogEngine, path string) error {
	if strings.IndexByte(path, 0) >= 0 {
		return &LogError{Op: "set log file", Err: ErrInvalidPath}
	}
	if !e.SetLogFilePath(path) {
		return &LogError{Op: "set log file", Err: ErrEngineRejected}
	}
	Logger().Debug("tdjson: engine log file set", zap.String("path", path))
	return nil
}

// SetLogVerbosityLevel sets the engine log verbosity.
// [LevelFatal] is passed to the engine as 0; every other level must lie in
// [1, MaxLevel].
func SetLogVerbosityLevel(e LogEngine, level Level) error {
	if level != LevelFatal && (level < 1 || level > MaxLevel) {
		return &LogError{Op: "set log verbosity " + strconv.Itoa(int(level)), Err: ErrOutOfRange}
	}
	e.SetLogVerbosityLevel(int(level))
	Logger().Debug("tdjson: engine log verbosity set", zap.Stringer("level", level))
	return nil
}
