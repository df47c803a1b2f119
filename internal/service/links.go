package service

import (
	"fmt"
	"net/url"
	"strings"
)

// 本服务页面的路由
const (
	PathAll       = "/api/v1/recommendations/mine"
	PathRecommend = "/api/v1/recommendations"
	PathHistory   = "/api/v1/recommendations/history"
	PathStats     = "/api/v1/recommendations/stats"
)

// Links 生成宿主平台与本服务的链接
type Links struct {
	BaseURL       string
	DashboardPath string
}

func NewLinks(baseURL, dashboardPath string) Links {
	if dashboardPath == "" {
		dashboardPath = "/my/"
	}
	return Links{BaseURL: strings.TrimRight(baseURL, "/"), DashboardPath: dashboardPath}
}

func (l Links) Course(courseID int64) string {
	return fmt.Sprintf("%s/course/view.php?id=%d", l.BaseURL, courseID)
}

func (l Links) Profile(userID int64) string {
	return fmt.Sprintf("%s/user/profile.php?id=%d", l.BaseURL, userID)
}

func (l Links) Dashboard() string { return l.BaseURL + l.DashboardPath }

// OverviewFile 课程概览附件的下载地址
func (l Links) OverviewFile(courseID int64, filepath, filename string) string {
	if filepath == "" {
		filepath = "/"
	}
	return fmt.Sprintf("%s/pluginfile.php/course/%d/overviewfiles%s%s",
		l.BaseURL, courseID, filepath, url.PathEscape(filename))
}

// NavTab 管理页的标签
type NavTab struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

func manageTabs(active string) []NavTab {
	return []NavTab{
		{ID: "history", URL: PathHistory, Label: "Recommendation history", Active: active == "history"},
		{ID: "stats", URL: PathStats, Label: "Stats", Active: active == "stats"},
	}
}
