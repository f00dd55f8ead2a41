package srt

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
)

// Signal clasifica el cuerpo de una respuesta del sitio. El sitio responde 200
// tanto en exito como en error, asi que la clasificacion es textual.
type Signal int

const (
	SignalNone Signal = iota
	SignalFailure
	SignalRedirect
)

const genericLoginFailure = "로그인에 실패했습니다."

var (
	// Marcadores de sesion ausente o vencida.
	loginRequiredMarkers = []string{
		"로그인이 필요",
		"로그인 후 이용",
		"세션이 만료",
		"login required",
	}
	loggedInMarkers = []string{"로그아웃", "logout"}
	redirectMarkers = []string{"location.replace", "location.href"}

	alertPattern = regexp.MustCompile(`alert\(\s*['"](.*?)['"]\s*\)`)
)

// DetectLoginResult clasifica la respuesta del POST de login. Un alert inline
// es un rechazo y tiene prioridad sobre cualquier redireccion.
func DetectLoginResult(body []byte) (Signal, string) {
	if bytes.Contains(body, []byte("alert")) {
		msg := genericLoginFailure
		if m := alertPattern.FindSubmatch(body); m != nil {
			if decoded := decodeAlert(string(m[1])); decoded != "" {
				msg = decoded
			}
		}
		return SignalFailure, msg
	}
	if containsAny(body, redirectMarkers) {
		return SignalRedirect, ""
	}
	return SignalNone, ""
}

// IsLoginRequired reporta si la pagina pide iniciar sesion.
func IsLoginRequired(body []byte) bool {
	return containsAny(body, loginRequiredMarkers)
}

// IsLoggedIn reporta si la pagina muestra el enlace de cierre de sesion.
func IsLoggedIn(body []byte) bool {
	return containsAny(body, loggedInMarkers)
}

func containsAny(body []byte, markers []string) bool {
	for _, m := range markers {
		if bytes.Contains(body, []byte(m)) {
			return true
		}
	}
	return false
}

func decodeAlert(raw string) string {
	msg := strings.ReplaceAll(raw, `\n`, " ")
	msg = strings.ReplaceAll(msg, `\`, "")
	if unescaped, err := url.QueryUnescape(msg); err == nil {
		msg = unescaped
	}
	return strings.Join(strings.Fields(msg), " ")
}
