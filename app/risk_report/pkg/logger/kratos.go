package logger

import (
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
)

// kratosLogger 将 kratos log.Logger 的输出转发到 logrus
type kratosLogger struct {
	l *logrus.Logger
}

// NewKratosLogger 返回写入 l 的 kratos 日志器，l 为 nil 时使用全局 Log
func NewKratosLogger(l *logrus.Logger) log.Logger {
	return &kratosLogger{l: l}
}

// Log 实现 log.Logger 接口。msg 键作为消息，其余键值对作为字段。
func (k *kratosLogger) Log(level log.Level, keyvals ...interface{}) error {
	l := k.l
	if l == nil {
		l = Log
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	var msg string
	fields := logrus.Fields{}
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields[key] = keyvals[i+1]
	}

	l.WithFields(fields).Log(toLogrusLevel(level), strings.TrimSpace(msg))
	return nil
}

func toLogrusLevel(level log.Level) logrus.Level {
	switch level {
	case log.LevelDebug:
		return logrus.DebugLevel
	case log.LevelWarn:
		return logrus.WarnLevel
	case log.LevelError:
		return logrus.ErrorLevel
	case log.LevelFatal:
		// 不让第三方日志调用终止进程
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
