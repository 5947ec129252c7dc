package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// log level
const (
	Detail LogLevel = 1
	Debug  LogLevel = 10
	Info   LogLevel = 20
	Warn   LogLevel = 30
	Error  LogLevel = 40
	Fatal  LogLevel = 50
)

type LogLevel int

var level2String = make(map[LogLevel]string)

type Logger struct {
	logger   *log.Logger
	enabled  bool
	logLevel LogLevel
}

type CombinedLogger struct {
	stdLogger  *Logger
	fileLogger *Logger
}

// MyLogger is the process wide logger. Library code logs through the package
// level helpers, which are no-ops until a logger is installed.
var MyLogger *CombinedLogger

func newLogger(logFilepath string, enableStd, enableFile bool) *CombinedLogger {
	var outfile io.Writer = io.Discard
	if enableFile {
		if err := os.MkdirAll(filepath.Dir(logFilepath), os.ModePerm); err != nil {
			panic(fmt.Sprintf("log file '%v' initialize failed: %v", logFilepath, err.Error()))
		}
		//init file output
		f, err := os.OpenFile(logFilepath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Sprintf("log file '%v' open failed: %v", logFilepath, err.Error()))
		}
		outfile = f
	}

	stdLogger := &Logger{
		logger:   log.New(os.Stdout, "\r\n", log.Ldate|log.Ltime|log.Lshortfile|log.Lmicroseconds),
		enabled:  enableStd,
		logLevel: Debug,
	}

	fileLogger := &Logger{
		logger:   log.New(outfile, "\r\n", log.Ldate|log.Ltime|log.Lshortfile|log.Lmicroseconds),
		enabled:  enableFile,
		logLevel: Debug,
	}

	logger := &CombinedLogger{
		stdLogger:  stdLogger,
		fileLogger: fileLogger,
	}

	logger.stdLogger.logger.SetPrefix("[Info]")

	return logger
}

func NewDefaultLogger(filepath string, enableStd, enableFile bool) *CombinedLogger {
	MyLogger = newLogger(filepath, enableStd, enableFile)
	return MyLogger
}

// NewWriterLogger logs to w only. Used by tests and by embedders that own their output.
func NewWriterLogger(w io.Writer, lv LogLevel) *CombinedLogger {
	return &CombinedLogger{
		stdLogger: &Logger{
			logger:   log.New(w, "", log.Lshortfile),
			enabled:  true,
			logLevel: lv,
		},
	}
}

func init() {
	clear := " "
	level2String[Detail] = "[DETAIL]" + clear
	level2String[Debug] = "[DEBUG]" + clear
	level2String[Info] = "[INFO]" + clear
	level2String[Warn] = "[WARN]" + clear
	level2String[Error] = "[ERROR]" + clear
	level2String[Fatal] = "[FATAL]" + clear
}

// ParseLogLevel maps a config value ("debug", "info", ...) to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "detail":
		return Detail, nil
	case "debug", "":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	case "fatal":
		return Fatal, nil
	}
	return Debug, fmt.Errorf("unknown log level %q", s)
}

// SetLogLevel
func (l *Logger) SetLogLevel(lv LogLevel) {
	l.logLevel = lv
}

// GetLevelString
func (l *Logger) GetLevelString(lv LogLevel) string {
	if str, ok := level2String[lv]; ok {
		return str
	}
	return "[" + strconv.Itoa(int(lv)) + "]"
}

// SetLogLevel
func (l *CombinedLogger) SetLogLevel(lv LogLevel) {
	if l.stdLogger != nil {
		l.stdLogger.SetLogLevel(lv)
	}
	if l.fileLogger != nil {
		l.fileLogger.SetLogLevel(lv)
	}
}

func (l *Logger) LogDepth(level LogLevel, calldepth int, v ...interface{}) {
	if level < l.logLevel {
		return
	}

	if l.enabled && l.logger != nil {
		l.logger.SetPrefix(l.GetLevelString(level))
		_ = l.logger.Output(calldepth, fmt.Sprintln(v...))
	}
}

func (l *CombinedLogger) LogDepth(level LogLevel, calldepth int, v ...interface{}) {
	if l == nil {
		return
	}
	if l.stdLogger != nil {
		l.stdLogger.LogDepth(level, calldepth, v...)
	}
	if l.fileLogger != nil {
		l.fileLogger.LogDepth(level, calldepth, v...)
	}
}

func (l *CombinedLogger) InfoLog(v ...interface{}) {
	l.LogDepth(Info, 4, v...)
}

func (l *CombinedLogger) ErrorLog(v ...interface{}) {
	l.LogDepth(Error, 4, v...)
}

// Log calls default logger and output info log
func Log(v ...interface{}) {
	MyLogger.LogDepth(Info, 4, v...)
}

func Logf(template string, v ...interface{}) {
	MyLogger.LogDepth(Info, 4, fmt.Sprintf(template, v...))
}

// ErrorLog call default logger and output error log
func ErrorLog(v ...interface{}) {
	MyLogger.LogDepth(Error, 4, v...)
}

func WarnLog(v ...interface{}) {
	MyLogger.LogDepth(Warn, 4, v...)
}

func WarnLogf(template string, v ...interface{}) {
	MyLogger.LogDepth(Warn, 4, fmt.Sprintf(template, v...))
}

// DebugLog calls default logger and output debug log
func DebugLog(v ...interface{}) {
	MyLogger.LogDepth(Debug, 4, v...)
}

// DebugLogf calls default logger and output debug log
func DebugLogf(template string, v ...interface{}) {
	MyLogger.LogDepth(Debug, 4, fmt.Sprintf(template, v...))
}
