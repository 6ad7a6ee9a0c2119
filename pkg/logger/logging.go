package logger

import (
	"io"
	"os"

	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// Init sends the log to logFile, when set, and applies the level. Unknown
// levels keep the current one.
func Init(logFile string, level string) {
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetFormatter(&logrus.TextFormatter{
				DisableColors:   true,
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
			log.SetOutput(file)
		} else {
			log.Warn("Failed to log to file, using default stderr")
		}
	}

	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			log.Warnf("Unknown log level '%s', keeping %s", level, log.GetLevel())
			return
		}
		log.SetLevel(lvl)
	}
}

// SetOutput redirects the log, mostly useful in tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func SetLevel(level logrus.Level) {
	log.SetLevel(level)
}

func Logger() *logrus.Logger {
	return log
}

func Info(args ...interface{}) {
	log.Info(args...)
}

func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func Warn(args ...interface{}) {
	log.Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func Error(args ...interface{}) {
	log.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

func Debug(args ...interface{}) {
	log.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

var diagnosticLevels = map[m3uparser.DiagnosticKind]logrus.Level{
	m3uparser.DiagnosticCommentIgnored:       logrus.DebugLevel,
	m3uparser.DiagnosticDirectiveOverwritten: logrus.WarnLevel,
	m3uparser.DiagnosticDirectiveDangling:    logrus.DebugLevel,
	m3uparser.DiagnosticInvalidLocation:      logrus.WarnLevel,
	m3uparser.DiagnosticBlankMetadata:        logrus.DebugLevel,
	m3uparser.DiagnosticMetadataOverwritten:  logrus.InfoLevel,
	m3uparser.DiagnosticNestedMissing:        logrus.DebugLevel,
	m3uparser.DiagnosticNestedUnreadable:     logrus.WarnLevel,
	m3uparser.DiagnosticNestedCycle:          logrus.WarnLevel,
}

var diagnosticMessages = map[m3uparser.DiagnosticKind]string{
	m3uparser.DiagnosticCommentIgnored:       "Ignoring comment line",
	m3uparser.DiagnosticDirectiveOverwritten: "Ignoring info line, replaced before a location was found",
	m3uparser.DiagnosticDirectiveDangling:    "Ignoring info line at end of playlist",
	m3uparser.DiagnosticInvalidLocation:      "Could not parse as location",
	m3uparser.DiagnosticBlankMetadata:        "Ignoring blank value for metadata key",
	m3uparser.DiagnosticMetadataOverwritten:  "Overwrote value for duplicate metadata key",
	m3uparser.DiagnosticNestedMissing:        "Nested playlist is not a file",
	m3uparser.DiagnosticNestedUnreadable:     "Could not parse nested playlist file",
	m3uparser.DiagnosticNestedCycle:          "Nested playlist references itself",
}

// Diagnostics logs parser diagnostics through the package logger.
func Diagnostics() m3uparser.DiagnosticFunc {
	return DiagnosticsTo(log)
}

// DiagnosticsTo logs parser diagnostics with l.
func DiagnosticsTo(l *logrus.Logger) m3uparser.DiagnosticFunc {
	return func(d m3uparser.Diagnostic) {
		level, ok := diagnosticLevels[d.Kind]
		if !ok {
			level = logrus.InfoLevel
		}

		fields := logrus.Fields{
			"kind": d.Kind.String(),
			"line": d.Line,
		}
		if d.Detail != "" {
			fields["detail"] = d.Detail
		}

		entry := l.WithFields(fields)
		if d.Err != nil {
			entry = entry.WithError(d.Err)
		}
		entry.Log(level, diagnosticMessages[d.Kind])
	}
}
