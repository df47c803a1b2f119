// Package authz 基于 Casbin 的能力校验
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/d60-Lab/recommend-course/internal/service"
)

// Object 策略中的资源名
const Object = "recommend_course"

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer 实现 service.Authorizer
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer 路径为空或文件不存在时使用内置模型/策略
func NewEnforcer(modelPath, policyPath string) (*Enforcer, error) {
	var (
		m   model.Model
		err error
	)
	if fileExists(modelPath) {
		m, err = model.NewModelFromFile(modelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}

	var e *casbin.SyncedEnforcer
	if fileExists(policyPath) {
		e, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	} else {
		e, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadPolicy(e, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	return &Enforcer{enforcer: e}, nil
}

// loadPolicy 解析 csv 格式策略，跳过空行和注释
func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
			}
		}
	}
	return nil
}

// Subject 单个用户在策略中的主体名
func Subject(userID int64) string { return "user:" + strconv.FormatInt(userID, 10) }

// Can 用户本身或其任一角色被允许即通过
func (e *Enforcer) Can(caller service.Caller, capability string) (bool, error) {
	subjects := make([]string, 0, len(caller.Roles)+1)
	if caller.UserID > 0 {
		subjects = append(subjects, Subject(caller.UserID))
	}
	subjects = append(subjects, caller.Roles...)

	for _, sub := range subjects {
		ok, err := e.enforcer.Enforce(sub, Object, capability)
		if err != nil {
			return false, fmt.Errorf("enforce %s: %w", sub, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Grant 运行期为用户追加角色（不落盘）
func (e *Enforcer) Grant(userID int64, role string) error {
	_, err := e.enforcer.AddGroupingPolicy(Subject(userID), role)
	return err
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

var _ service.Authorizer = (*Enforcer)(nil)
