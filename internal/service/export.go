package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/recommend-course/pkg/logger"
)

// ExportComponent 导出数据所属组件
const ExportComponent = "recommend_course"

// ExportItem 写往宿主平台导出通道的一份数据
type ExportItem struct {
	UserID     int64     `json:"user_id"`
	Context    string    `json:"context"`
	Component  string    `json:"component"`
	Subcontext string    `json:"subcontext"`
	Data       any       `json:"data"`
	ExportedAt time.Time `json:"exported_at"`
}

// ExportWriter 宿主平台的通用导出通道
type ExportWriter interface {
	Write(ctx context.Context, item ExportItem) error
}

// RedisExportWriter 以 JSON 追加到 Redis 列表，由平台的导出任务消费
type RedisExportWriter struct {
	client *redis.Client
	key    string
}

func NewRedisExportWriter(client *redis.Client, key string) *RedisExportWriter {
	return &RedisExportWriter{client: client, key: key}
}

func (w *RedisExportWriter) Write(ctx context.Context, item ExportItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	return w.client.RPush(ctx, w.key, payload).Err()
}

// LogExportWriter 未配置 Redis 时把导出写进日志
type LogExportWriter struct{}

func (LogExportWriter) Write(_ context.Context, item ExportItem) error {
	logger.Info("privacy export",
		zap.Int64("user", item.UserID),
		zap.String("context", item.Context),
		zap.String("subcontext", item.Subcontext),
		zap.Any("data", item.Data),
	)
	return nil
}
