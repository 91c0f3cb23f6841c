package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwalton/go-supportscolor"
	"github.com/sirupsen/logrus"
)

// DefaultLevel only lets warnings and worse through.
const DefaultLevel = "WARNING"

// ParseLevel accepts the usual severity names (DEBUG, INFO, WARNING, ERROR,
// CRITICAL) in any case, as well as every name logrus itself understands.
func ParseLevel(name string) (logrus.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "WARNING", "WARN":
		return logrus.WarnLevel, nil
	case "CRITICAL", "FATAL":
		return logrus.FatalLevel, nil
	case "NOTSET":
		return logrus.TraceLevel, nil
	}
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return level, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// NewLogger returns a logger writing to w at the named level.
// Colors are only used when w is a terminal stderr that supports them.
func NewLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	colors := w == io.Writer(os.Stderr) && supportscolor.Stderr().SupportsColor

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		ForceColors:      colors,
		DisableColors:    !colors,
		DisableQuote:     true,
		PadLevelText:     true,
		QuoteEmptyFields: true,
	})
	return logger, nil
}
