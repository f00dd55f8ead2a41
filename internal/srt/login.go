package srt

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"srt-booking/internal/domain"
)

const (
	landingPath = "/main.do"
	loginPath   = "/cmc/01/selectLoginInfo.do"
	logoutPath  = loginPath + "?pageId=TK0701000000"
)

// Codigos de tipo de cuenta del formulario de login.
const (
	accountMembership = "1"
	accountEmail      = "2"
	accountPhone      = "3"
)

// LoginExecutor reproduce la secuencia de login del navegador.
type LoginExecutor struct {
	site   *site
	store  *SessionStore
	logger *zap.Logger
	now    func() time.Time
}

// Login ejecuta landing, POST de credenciales y verificacion. Solo guarda la
// sesion en el store cuando la verificacion confirma el login.
func (e *LoginExecutor) Login(ctx context.Context, localID, username, password string) (domain.Session, error) {
	landing, err := e.site.send(ctx, "landing", exchange{method: http.MethodGet, path: landingPath})
	if err != nil {
		return domain.Session{}, err
	}
	if landing.statusCode >= http.StatusBadRequest {
		return domain.Session{}, &TransportError{Op: "landing", StatusCode: landing.statusCode}
	}
	token := landing.token
	if token == "" {
		return domain.Session{}, ErrNoInitialSession
	}

	kind, account := accountType(username)
	form := url.Values{}
	form.Set("srchDvCd", kind)
	form.Set("srchDvNm", account)
	form.Set("hmpgPwdCphd", password)

	submitted, err := e.site.send(ctx, "login", exchange{
		method:  http.MethodPost,
		path:    loginPath,
		form:    form,
		token:   token,
		referer: landingPath,
		origin:  true,
	})
	if err != nil {
		return domain.Session{}, err
	}
	if submitted.statusCode >= http.StatusBadRequest {
		return domain.Session{}, &TransportError{Op: "login", StatusCode: submitted.statusCode}
	}
	if submitted.token != "" {
		token = submitted.token
	}

	switch signal, msg := DetectLoginResult(submitted.body); signal {
	case SignalFailure:
		e.logger.Info("srt login rejected", zap.String("local_id", localID))
		return domain.Session{}, &CredentialsError{Message: msg}
	case SignalRedirect:
	default:
		e.logger.Warn("srt login returned no signal", zap.String("local_id", localID))
		return domain.Session{}, &CredentialsError{Message: genericLoginFailure}
	}

	// La redireccion sola no alcanza: el sitio tambien la emite para banners.
	verified, err := e.site.send(ctx, "verify", exchange{
		method:  http.MethodGet,
		path:    landingPath,
		token:   token,
		referer: loginPath,
	})
	if err != nil {
		return domain.Session{}, err
	}
	if verified.token != "" {
		token = verified.token
	}
	if IsLoginRequired(verified.body) || !IsLoggedIn(verified.body) {
		e.logger.Warn("srt login verification failed", zap.String("local_id", localID), zap.Int("status", verified.statusCode))
		return domain.Session{}, ErrVerificationFailed
	}

	session := domain.Session{
		LocalID:       localID,
		UpstreamToken: token,
		OwnerIdentity: account,
		CreatedAt:     e.now().UTC(),
	}
	e.store.Put(localID, session)
	return session, nil
}

// accountType elige el codigo de cuenta segun la forma del usuario:
// email, telefono movil o numero de socio.
func accountType(username string) (string, string) {
	username = strings.TrimSpace(username)
	if strings.Contains(username, "@") {
		return accountEmail, username
	}
	digits := strings.ReplaceAll(username, "-", "")
	if strings.HasPrefix(digits, "01") && len(digits) >= 10 && isDigits(digits) {
		return accountPhone, digits
	}
	return accountMembership, username
}

// NormalizeAccount devuelve la cuenta tal como se envia al sitio. Distintas
// escrituras del mismo telefono resultan en el mismo valor.
func NormalizeAccount(username string) string {
	_, account := accountType(username)
	return account
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
