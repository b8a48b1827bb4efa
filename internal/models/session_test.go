package models

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

func testCookies() []*proto.NetworkCookie {
	return []*proto.NetworkCookie{
		{Name: "canvas_session", Value: "abc", Domain: "canvas.ssu.ac.kr", Path: "/"},
		{Name: "_lms_sso", Value: "xyz", Domain: "lms.ssu.ac.kr", Path: "/"},
	}
}

func TestSessionCredentialValidate(t *testing.T) {
	tests := []struct {
		name    string
		cred    *SessionCredential
		wantErr bool
	}{
		{"合法凭证", NewSessionCredential(testCookies(), "https://lms.ssu.ac.kr/"), false},
		{"空凭证", nil, true},
		{"无Cookie", NewSessionCredential(nil, "https://lms.ssu.ac.kr/"), true},
		{"无来源站点", NewSessionCredential(testCookies(), ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cred.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// 创建后对原切片的修改不得影响凭证
func TestSessionCredentialImmutable(t *testing.T) {
	cookies := testCookies()
	cred := NewSessionCredential(cookies, "https://lms.ssu.ac.kr/")

	cookies[0] = &proto.NetworkCookie{Name: "tampered", Value: "evil"}

	if cred.Cookies[0].Name != "canvas_session" {
		t.Errorf("凭证Cookie被外部修改污染: %s", cred.Cookies[0].Name)
	}
}

func TestCookieParams(t *testing.T) {
	cred := NewSessionCredential(testCookies(), "https://lms.ssu.ac.kr/")

	params := cred.CookieParams()
	if len(params) != 2 {
		t.Fatalf("参数数量 = %d, 期望 2", len(params))
	}
	if params[0].Name != "canvas_session" || params[0].Domain != "canvas.ssu.ac.kr" {
		t.Errorf("Cookie参数转换错误: %+v", params[0])
	}

	// 每次调用返回独立切片
	other := cred.CookieParams()
	if &params[0] == &other[0] {
		t.Error("两次调用共享了同一底层切片")
	}
}
