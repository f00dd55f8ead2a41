package srt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"srt-booking/internal/domain"
)

const (
	sessionCookie  = "JSESSIONID"
	maxBodyBytes   = 4 << 20
	defaultBaseURL = "https://etk.srail.kr"
	defaultAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// HTTPDoer es el subconjunto de *http.Client que usa el cliente.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// site concentra el set de headers fijo. El sitio cambia de comportamiento
// segun user-agent e idioma, por eso login y consultas comparten este codigo.
type site struct {
	baseURL   string
	userAgent string
	doer      HTTPDoer
}

type exchange struct {
	method  string
	path    string
	form    url.Values
	token   string
	referer string
	origin  bool
}

type reply struct {
	statusCode int
	body       []byte
	token      string
}

func (s *site) send(ctx context.Context, op string, ex exchange) (reply, error) {
	var body io.Reader
	if ex.form != nil {
		body = strings.NewReader(ex.form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, ex.method, s.baseURL+ex.path, body)
	if err != nil {
		return reply{}, fmt.Errorf("srt: %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.8,en-US;q=0.6,en;q=0.4")
	req.Header.Set("User-Agent", s.userAgent)
	if ex.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}
	if ex.token != "" {
		req.Header.Set("Cookie", sessionCookie+"="+ex.token+"; SR_MB_CD=1")
	}
	if ex.referer != "" {
		req.Header.Set("Referer", s.baseURL+ex.referer)
	}
	if ex.origin {
		req.Header.Set("Origin", s.baseURL)
	}

	resp, err := s.doer.Do(req)
	if err != nil {
		return reply{}, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return reply{}, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	out := reply{statusCode: resp.StatusCode, body: respBody}
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			out.token = c.Value
		}
	}
	return out, nil
}

// Request describe una llamada autenticada. Path es relativo a la URL base.
type Request struct {
	Method  string
	Path    string
	Form    url.Values
	Referer string
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Dispatcher ejecuta llamadas en nombre de una sesion y detecta su vencimiento.
// Nunca reintenta ni vuelve a autenticar; eso queda en manos del llamador.
type Dispatcher struct {
	site *site
}

func (d *Dispatcher) Call(ctx context.Context, session domain.Session, req Request) (Response, error) {
	if !session.Usable() {
		return Response{}, ErrNotAuthenticated
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	op := strings.ToLower(method) + " " + req.Path
	rep, err := d.site.send(ctx, op, exchange{
		method:  method,
		path:    req.Path,
		form:    req.Form,
		token:   session.UpstreamToken,
		referer: req.Referer,
	})
	if err != nil {
		return Response{}, err
	}
	// El marcador de vencimiento manda sobre el status HTTP.
	if IsLoginRequired(rep.body) {
		return Response{}, ErrSessionExpired
	}
	if rep.statusCode >= http.StatusBadRequest {
		return Response{}, &TransportError{Op: op, StatusCode: rep.statusCode}
	}
	return Response{StatusCode: rep.statusCode, Body: rep.body}, nil
}
