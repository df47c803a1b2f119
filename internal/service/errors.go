package service

import "errors"

var (
	// ErrInvalidRecommendation 课程未选或接收人为空，整批拒绝
	ErrInvalidRecommendation = errors.New("invalid data, select at least one user and course")
	// ErrInvalidUserID 调用方或目标用户 id 非法
	ErrInvalidUserID = errors.New("invalid user id")
)
