package service

// Caller 显式传入的调用方身份，由鉴权中间件构造
type Caller struct {
	UserID int64
	Roles  []string
}

// 能力名，对应授权策略中的 act
const (
	CapabilityViewStats = "viewstats"
	CapabilityPrivacy   = "privacy"
)

// Authorizer 外部授权协作者
type Authorizer interface {
	Can(caller Caller, capability string) (bool, error)
}
