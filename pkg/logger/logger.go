package logger

import (
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

func init() {
	// 缺省先给一个开发配置，Init 之前的日志也有处可去
	l, _ := zap.NewDevelopment()
	sugar = l.Sugar()
}

// Init 按运行模式初始化全局日志器
// mode: "release" 输出 JSON，其余输出开发格式
func Init(mode string) {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "release" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

// L 获取全局 SugaredLogger
func L() *zap.SugaredLogger {
	return sugar
}

// Sync 刷出缓冲日志（进程退出前调用）
func Sync() {
	_ = sugar.Sync()
}
