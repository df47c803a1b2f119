// Package monitoring Sentry 错误上报
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recommend-course/config"
)

// Init DSN 为空时不启用，返回 false
func Init(cfg config.SentryConfig) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Middleware 捕获 panic 并把 c.Errors 中的错误上报
func Middleware() gin.HandlerFunc {
	capture := sentrygin.New(sentrygin.Options{Repanic: true})
	return func(c *gin.Context) {
		capture(c)
		if len(c.Errors) == 0 {
			return
		}
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			for _, e := range c.Errors {
				hub.CaptureException(e.Err)
			}
		}
	}
}

func Flush() { sentry.Flush(2 * time.Second) }
