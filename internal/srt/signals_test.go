package srt

import "testing"

func TestDetectLoginResult(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		signal Signal
		msg    string
	}{
		{
			name:   "alert failure",
			body:   `<script>alert("비밀번호 오류입니다.\n다시 확인하세요.");history.back();</script>`,
			signal: SignalFailure,
			msg:    "비밀번호 오류입니다. 다시 확인하세요.",
		},
		{
			name:   "encoded alert",
			body:   `<script>alert('%EB%A1%9C%EA%B7%B8%EC%9D%B8+%EC%8B%A4%ED%8C%A8')</script>`,
			signal: SignalFailure,
			msg:    "로그인 실패",
		},
		{
			name:   "alert without message",
			body:   `<script>window.alert</script>`,
			signal: SignalFailure,
			msg:    genericLoginFailure,
		},
		{
			name:   "failure wins over redirect",
			body:   `<script>alert('잠긴 계정');location.href='/main.do';</script>`,
			signal: SignalFailure,
			msg:    "잠긴 계정",
		},
		{
			name:   "login-required alert is a rejection",
			body:   `<script>alert('로그인이 필요합니다.');</script>`,
			signal: SignalFailure,
			msg:    "로그인이 필요합니다.",
		},
		{
			name:   "redirect replace",
			body:   `<script>location.replace('/main.do');</script>`,
			signal: SignalRedirect,
		},
		{
			name:   "redirect href",
			body:   `<script>location.href = "/main.do";</script>`,
			signal: SignalRedirect,
		},
		{
			name:   "no signal",
			body:   `<html></html>`,
			signal: SignalNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signal, msg := DetectLoginResult([]byte(tc.body))
			if signal != tc.signal || msg != tc.msg {
				t.Fatalf("got %v,%q; want %v,%q", signal, msg, tc.signal, tc.msg)
			}
		})
	}
}

func TestLoginMarkers(t *testing.T) {
	if !IsLoginRequired([]byte(`<p>로그인이 필요합니다.</p>`)) {
		t.Fatalf("expected login required marker")
	}
	if !IsLoginRequired([]byte(`{"msg":"세션이 만료되었습니다"}`)) {
		t.Fatalf("expected expired session marker")
	}
	if IsLoginRequired([]byte(`{"outDataSets":{"dsOutput1":[]}}`)) {
		t.Fatalf("unexpected marker in listing")
	}
	if !IsLoggedIn([]byte(`<a>로그아웃</a>`)) {
		t.Fatalf("expected logged in marker")
	}
	if IsLoggedIn([]byte(`<a>로그인</a>`)) {
		t.Fatalf("unexpected logged in marker")
	}
}
