package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Initはグローバルロガーを設定する。main()で一度だけ呼ぶ
func Init(filePath string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if filePath == "" {
		log.SetOutput(os.Stdout)
		return
	}

	rot := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rot))
}
