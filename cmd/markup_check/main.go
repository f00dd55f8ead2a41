// markup_check verifica que los marcadores de SRT sigan clasificando bien las
// respuestas conocidas. Acepta ademas capturas reales como argumentos:
//
//	markup_check login:respuesta.html search:listado.json page:main.html
package main

import (
	"fmt"
	"os"
	"strings"

	"srt-booking/internal/srt"
)

type Scenario struct {
	Name   string
	Kind   string
	Body   string
	Expect string
}

func main() {
	scenarios := []Scenario{
		{
			Name:   "Login rechazado",
			Kind:   "login",
			Body:   `<script>alert('%EB%B9%84%EB%B0%80%EB%B2%88%ED%98%B8%20%EC%98%A4%EB%A5%98');history.back();</script>`,
			Expect: "failure:비밀번호 오류",
		},
		{
			Name:   "Login con redireccion",
			Kind:   "login",
			Body:   `<script>location.replace('/main.do');</script>`,
			Expect: "redirect",
		},
		{
			Name:   "Login con aviso de sesion",
			Kind:   "login",
			Body:   `<script>alert('로그인이 필요합니다.');</script>`,
			Expect: "failure:로그인이 필요합니다.",
		},
		{
			Name:   "Login sin senal",
			Kind:   "login",
			Body:   `<html><body></body></html>`,
			Expect: "none",
		},
		{
			Name:   "Pagina con sesion",
			Kind:   "page",
			Body:   `<a href="/logout">로그아웃</a>`,
			Expect: "logged-in",
		},
		{
			Name:   "Sesion vencida",
			Kind:   "page",
			Body:   `<script>alert('로그인이 필요합니다.');</script>`,
			Expect: "login-required",
		},
		{
			Name:   "Listado con fila invalida",
			Kind:   "search",
			Body:   `{"outDataSets":{"dsOutput1":[{"stlbTrnNo":"301","dptTm":"053000","arvTm":"075200","reqTime":"0222","sprmRsvPrc":"84,500","gnrmRsvPrc":"52600"},{"stlbTrnNo":"303","dptTm":"060000","arvTm":"082000","reqTime":"0220","sprmRsvPrc":"-","gnrmRsvPrc":"52600"}]}}`,
			Expect: "trains=1 dropped=1",
		},
		{
			Name:   "Listado vacio",
			Kind:   "search",
			Body:   `{"outDataSets":{}}`,
			Expect: "trains=0 dropped=0",
		},
	}

	passed := 0
	for _, sc := range scenarios {
		got := classify(sc.Kind, []byte(sc.Body))
		if got == sc.Expect {
			fmt.Printf("✅ PASS [%s] %s\n", sc.Name, got)
			passed++
		} else {
			fmt.Printf("❌ FAIL [%s] esperado=%q obtenido=%q\n", sc.Name, sc.Expect, got)
		}
	}
	fmt.Printf("Escenarios: %d/%d pasaron\n", passed, len(scenarios))

	for _, arg := range os.Args[1:] {
		kind, path, ok := strings.Cut(arg, ":")
		if !ok {
			fmt.Printf("argumento invalido %q (usar tipo:archivo)\n", arg)
			continue
		}
		body, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("leer %s: %v\n", path, err)
			continue
		}
		fmt.Printf("%s [%s] %s\n", path, kind, classify(kind, body))
	}

	if passed != len(scenarios) {
		os.Exit(1)
	}
}

func classify(kind string, body []byte) string {
	switch kind {
	case "login":
		signal, message := srt.DetectLoginResult(body)
		switch signal {
		case srt.SignalFailure:
			return "failure:" + message
		case srt.SignalRedirect:
			return "redirect"
		}
		return "none"
	case "page":
		switch {
		case srt.IsLoginRequired(body):
			return "login-required"
		case srt.IsLoggedIn(body):
			return "logged-in"
		}
		return "anonymous"
	case "search":
		trains, dropped, err := srt.ParseTrainListing(body)
		if err != nil {
			return "error: " + err.Error()
		}
		return fmt.Sprintf("trains=%d dropped=%d", len(trains), dropped)
	}
	return "unknown kind " + kind
}
