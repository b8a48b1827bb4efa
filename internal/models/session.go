package models

import (
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// SessionCredential 会话凭证
// 登录成功后从主浏览器导出的可序列化认证状态(Cookie集合+来源站点)
// 这是唯一跨越并发边界的对象: 一个生产者,多个独立消费者
// 创建后不可变,每个执行单元用它重建自己独立的浏览器实例
type SessionCredential struct {
	Cookies    []*proto.NetworkCookie `json:"cookies"`
	Origin     string                 `json:"origin"`      // 门户根URL
	ExportedAt time.Time              `json:"exported_at"` // 导出时间
}

// NewSessionCredential 创建会话凭证
// 对Cookie切片做浅拷贝,防止调用方后续修改影响凭证
func NewSessionCredential(cookies []*proto.NetworkCookie, origin string) *SessionCredential {
	copied := make([]*proto.NetworkCookie, len(cookies))
	copy(copied, cookies)
	return &SessionCredential{
		Cookies:    copied,
		Origin:     origin,
		ExportedAt: time.Now(),
	}
}

// Validate 校验凭证可用性
func (sc *SessionCredential) Validate() error {
	if sc == nil {
		return fmt.Errorf("会话凭证为空")
	}
	if len(sc.Cookies) == 0 {
		return fmt.Errorf("会话凭证不包含任何Cookie")
	}
	if sc.Origin == "" {
		return fmt.Errorf("会话凭证缺少来源站点")
	}
	return nil
}

// CookieParams 转换为可注入新浏览器的Cookie参数
// 每次调用返回新切片,消费方之间互不共享可变状态
func (sc *SessionCredential) CookieParams() []*proto.NetworkCookieParam {
	return proto.CookiesToParams(sc.Cookies)
}
