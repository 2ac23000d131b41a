package service

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	statusURLPattern = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|mobile\.)?(?:twitter\.com|x\.com)/(?:#!/)?(\w+)/status(?:es)?/(\d+)`)
	bareIDPattern    = regexp.MustCompile(`^\d{1,25}$`)
	handlePattern    = regexp.MustCompile(`^@\w{1,15}$`)
)

// ExternalRef 解析后的外部帖子引用
type ExternalRef struct {
	TweetID     string
	Author      string
	OriginalURL string
}

// ParseExternalRef 接受 x.com / twitter.com 的 status 链接或纯数字 id
func ParseExternalRef(ref string) (ExternalRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ExternalRef{}, ErrInvalidReference
	}
	if bareIDPattern.MatchString(ref) {
		return ExternalRef{
			TweetID:     ref,
			OriginalURL: "https://x.com/i/status/" + ref,
		}, nil
	}
	m := statusURLPattern.FindStringSubmatch(ref)
	if m == nil {
		return ExternalRef{}, ErrInvalidReference
	}
	return ExternalRef{TweetID: m[2], Author: m[1], OriginalURL: ref}, nil
}

// NormalizeHandle 去除首尾空白并校验格式
func NormalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if strings.IndexFunc(handle, unicode.IsSpace) >= 0 || !handlePattern.MatchString(handle) {
		return "", ErrInvalidHandle
	}
	return handle, nil
}

// ValidHandle 供请求绑定层复用
func ValidHandle(handle string) bool {
	_, err := NormalizeHandle(handle)
	return err == nil
}
