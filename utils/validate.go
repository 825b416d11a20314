package utils

import (
	"net/url"
	"strings"
)

// ValidateURL 仅接受带主机名的 http/https 链接
func ValidateURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
