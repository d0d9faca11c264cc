package logger

import (
	"bytes"
	"fmt"
	"os"
	"time"

	conf "github.com/openweb3/wallet-core/config"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger stays a no-op until InitLogger runs, so packages can log from tests
var logger = zap.NewNop()
var stag string

func InitLogger(cfg *conf.Config) error {
	now := time.Now()
	lPath := fmt.Sprintf("%s_%s.log", cfg.LogInfo.Path, now.Format("2006-01-02"))

	rotator, err := rotatelogs.New(
		lPath,
		rotatelogs.WithMaxAge(time.Duration(cfg.LogInfo.MaxAgeHour)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(cfg.LogInfo.RotateHour)*time.Hour))
	if err != nil {
		return err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "date",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	w := zapcore.AddSync(rotator)
	cw := zapcore.AddSync(os.Stdout)
	var core zapcore.Core
	stag = cfg.Common.Level
	if stag == "debug" {
		core = zapcore.NewTee(
			zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, zap.DebugLevel),
			zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), cw, zap.DebugLevel),
		)
	} else {
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, zap.InfoLevel)
	}
	logger = zap.New(core).Named(cfg.Common.ServiceName)

	logger.Info("logging init file start")
	return nil
}

// L exposes the underlying zap logger for structured fields
func L() *zap.Logger {
	return logger
}

func Sync() {
	_ = logger.Sync()
}

func join(ctx []interface{}) string {
	var b bytes.Buffer
	for _, str := range ctx {
		b.WriteString(fmt.Sprintf("%v", str))
	}
	return b.String()
}

func Debug(ctx ...interface{}) {
	logger.Debug("debug", zap.String("Debug", join(ctx)))
}

func Info(ctx ...interface{}) {
	logger.Info("info", zap.String("Info", join(ctx)))
}

func Warn(ctx ...interface{}) {
	logger.Warn("warn", zap.String("Warn", join(ctx)))
}

func Error(ctx ...interface{}) {
	logger.Error("error", zap.String("Err", join(ctx)))
}

// Error handling
func HandleErr(err error) {
	if err != nil {
		Error(err)
	}
}
