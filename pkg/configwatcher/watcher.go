package configwatcher

import (
	"log"
	"path/filepath"
	"sync"
	"time"
	"tutorhub_backend/internal/config"
	"tutorhub_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader 在配置文件变更并成功重载后回调
type Reloader func(cfg *config.Config)

// WatchConfig 监听配置文件写入，防抖一秒后整体重载。
// 重载失败只记日志，继续用旧配置跑。
func WatchConfig(configPath string, reloader Reloader) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("创建配置监听失败:", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		log.Fatal("解析配置路径失败:", err)
	}
	if err := watcher.Add(absPath); err != nil {
		log.Fatal("监听配置文件失败:", err)
	}

	var mu sync.Mutex
	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				// 编辑器保存往往触发多次写事件，防抖合并
				mu.Lock()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(time.Second)
				mu.Unlock()
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(configPath))
			if err != nil {
				logger.Log.Error("配置重载失败", zap.Error(err))
				continue
			}
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("配置监听出错", zap.Error(err))
		}
	}
}
