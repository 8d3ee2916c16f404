package traffic

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// 所有交通对象共用的控制台，写入通过 zerolog.SyncWriter 串行化
var (
	consoleMu sync.RWMutex
	console   = zerolog.New(zerolog.SyncWriter(os.Stderr)).With().Timestamp().Logger()
)

// Console 返回共享的控制台 logger
func Console() zerolog.Logger {
	consoleMu.RLock()
	defer consoleMu.RUnlock()
	return console
}

// SetConsole 替换共享控制台，w 会被包装成串行写入
func SetConsole(w io.Writer, level zerolog.Level) {
	l := zerolog.New(zerolog.SyncWriter(w)).Level(level).With().Timestamp().Logger()
	consoleMu.Lock()
	defer consoleMu.Unlock()
	console = l
}
