package task

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"bdshop_dev_v1_202608/pkg/logger"
	"bdshop_dev_v1_202608/pkg/utils"
)

// CleanupTask 上传暂存目录回收任务
// 正常路径上传完即删；进程崩溃或上传中断留下的残留靠这里兜底
type CleanupTask struct {
	Cron *cron.Cron

	dir    string
	maxAge time.Duration
}

func NewCleanupTask() *CleanupTask {
	return &CleanupTask{
		Cron:   cron.New(cron.WithSeconds()), // 支持秒级控制
		dir:    utils.TempUploadDir,
		maxAge: time.Hour, // 超过 1 小时的暂存文件视为残留
	}
}

// Start 启动定时任务
func (t *CleanupTask) Start() {
	// 首次执行
	go t.sweep()

	// 每 30 分钟扫一轮
	_, err := t.Cron.AddFunc("0 0/30 * * * *", t.sweep)
	if err != nil {
		logger.L().Fatalw("无法启动暂存清理任务", "err", err)
	}

	t.Cron.Start()
	logger.L().Infow("暂存清理任务已启动", "dir", t.dir, "max_age", t.maxAge)
}

// Stop 停止定时任务
func (t *CleanupTask) Stop() {
	t.Cron.Stop()
}

func (t *CleanupTask) sweep() {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Warnw("读取暂存目录失败", "dir", t.dir, "err", err)
		}
		return
	}

	cutoff := time.Now().Add(-t.maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(t.dir, entry.Name())); err != nil {
			logger.L().Warnw("删除残留暂存文件失败", "file", entry.Name(), "err", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.L().Infow("暂存清理完成", "removed", removed)
	}
}
