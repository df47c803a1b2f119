package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/d60-Lab/recommend-course/internal/model"
)

// ImageSource 解析封面所需的课程数据
type ImageSource struct {
	Course *model.Course
	Files  []model.CourseOverviewFile
}

// ImageResolver 返回封面地址，false 表示交给下一个
type ImageResolver interface {
	Resolve(src ImageSource) (string, bool)
}

type ImageResolverFunc func(src ImageSource) (string, bool)

func (f ImageResolverFunc) Resolve(src ImageSource) (string, bool) { return f(src) }

// ImageChain 依次尝试，直到某个 resolver 命中
type ImageChain []ImageResolver

func (c ImageChain) Resolve(src ImageSource) string {
	for _, r := range c {
		if u, ok := r.Resolve(src); ok {
			return u
		}
	}
	return ""
}

// DefaultImageChain 平台封面 -> 概览图片 -> 生成的占位图
func DefaultImageChain(links Links) ImageChain {
	return ImageChain{
		CourseImageResolver(),
		OverviewFileResolver(links),
		GeneratedImageResolver(),
	}
}

func CourseImageResolver() ImageResolver {
	return ImageResolverFunc(func(src ImageSource) (string, bool) {
		if src.Course == nil || src.Course.ImageURL == "" {
			return "", false
		}
		return src.Course.ImageURL, true
	})
}

var webImageTypes = map[string]bool{
	"image/gif":     true,
	"image/jpeg":    true,
	"image/png":     true,
	"image/svg+xml": true,
	"image/webp":    true,
}

func isValidImage(f model.CourseOverviewFile) bool {
	return f.FileName != "" && webImageTypes[strings.ToLower(f.MimeType)]
}

// OverviewFileResolver Files 需已按 sort_order 排序
func OverviewFileResolver(links Links) ImageResolver {
	return ImageResolverFunc(func(src ImageSource) (string, bool) {
		if src.Course == nil {
			return "", false
		}
		for _, f := range src.Files {
			if isValidImage(f) {
				return links.OverviewFile(src.Course.ID, f.FilePath, f.FileName), true
			}
		}
		return "", false
	})
}

var placeholderColours = []string{
	"#81ecec", "#74b9ff", "#a29bfe", "#dfe6e9", "#00b894",
	"#0984e3", "#b2bec3", "#fdcb6e", "#fd79a8", "#6c5ce7",
}

// GeneratedImageResolver 按课程 id 选色的 SVG 占位图，总是命中
func GeneratedImageResolver() ImageResolver {
	return ImageResolverFunc(func(src ImageSource) (string, bool) {
		var id int64
		if src.Course != nil {
			id = src.Course.ID
		}
		return generatedImage(id), true
	})
}

func generatedImage(id int64) string {
	colour := placeholderColours[uint64(id)%uint64(len(placeholderColours))]
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="300" height="150"><rect width="100%%" height="100%%" fill="%s"/></svg>`, colour)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
