package srt

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

const (
	stubUser     = "user@example.com"
	stubPassword = "secret-pass"
)

// stubSite imita el sitio de SRT con el minimo de comportamiento necesario.
type stubSite struct {
	mu          sync.Mutex
	initial     string
	rotated     string
	loggedIn    map[string]bool
	noCookie    bool
	skipVerify  bool
	lastForm    url.Values
	lastHeaders http.Header
	search      func(form url.Values) (int, string)
	calls       atomic.Int64
}

func newStubSite() *stubSite {
	return &stubSite{
		initial:  "initial-token",
		rotated:  "rotated-token",
		loggedIn: make(map[string]bool),
		search: func(url.Values) (int, string) {
			return http.StatusOK, trainListing(`{"stlbTrnNo":"301","dptTm":"053000","arvTm":"075200","dptRsStnNm":"수서","arvRsStnNm":"부산","reqTime":"0222","sprmRsvPsbStr":"예약가능","gnrmRsvPsbStr":"예약가능","rsvPsbStr":"Y","sprmRsvPrc":"84500","gnrmRsvPrc":"52600"}`)
		},
	}
}

func trainListing(rows ...string) string {
	body := `{"outDataSets":{"dsOutput1":[`
	for i, r := range rows {
		if i > 0 {
			body += ","
		}
		body += r
	}
	return body + `]}}`
}

func (s *stubSite) isLoggedIn(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn[c.Value]
}

func (s *stubSite) expireAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = make(map[string]bool)
}

func (s *stubSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	switch {
	case r.URL.Path == landingPath:
		if s.isLoggedIn(r) {
			fmt.Fprint(w, `<html><a href="/logout">로그아웃</a></html>`)
			return
		}
		if !s.noCookie {
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: s.initial})
		}
		fmt.Fprint(w, `<html><a class="login_btn">로그인</a></html>`)

	case r.URL.Path == loginPath && r.Method == http.MethodPost:
		_ = r.ParseForm()
		s.mu.Lock()
		s.lastForm = r.PostForm
		s.lastHeaders = r.Header.Clone()
		s.mu.Unlock()
		if r.PostForm.Get("srchDvNm") != stubUser || r.PostForm.Get("hmpgPwdCphd") != stubPassword {
			fmt.Fprint(w, `<script>alert('아이디 또는 비밀번호를 확인하세요.');history.back();</script>`)
			return
		}
		if !s.skipVerify {
			s.mu.Lock()
			s.loggedIn[s.rotated] = true
			s.mu.Unlock()
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: s.rotated})
		fmt.Fprint(w, `<script>location.replace('/main.do');</script>`)

	case r.URL.Path == loginPath && r.Method == http.MethodGet:
		if c, err := r.Cookie(sessionCookie); err == nil {
			s.mu.Lock()
			delete(s.loggedIn, c.Value)
			s.mu.Unlock()
		}
		fmt.Fprint(w, `<html>bye</html>`)

	case r.URL.Path == searchPath:
		if !s.isLoggedIn(r) {
			fmt.Fprint(w, `<script>alert('로그인이 필요합니다.');</script>`)
			return
		}
		_ = r.ParseForm()
		status, body := s.search(r.PostForm)
		w.WriteHeader(status)
		fmt.Fprint(w, body)

	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, stub *stubSite) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL, HTTPClient: srv.Client()}, zap.NewNop())
	return c, srv
}

type countingDoer struct {
	calls atomic.Int64
}

func (d *countingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return nil, fmt.Errorf("unexpected remote call")
}
