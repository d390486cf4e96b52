package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
)

// maxLoggedBody caps request and response bodies in access logs.
const maxLoggedBody = 4 << 10

type bodyDumpResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpResponseWriter) Flush() {
	err := http.NewResponseController(w.ResponseWriter).Flush()
	if err != nil && errors.Is(err, http.ErrNotSupported) {
		panic(errors.New("response writer flushing is not supported"))
	}
}

func (w *bodyDumpResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(w.ResponseWriter).Hijack()
}

func (w *bodyDumpResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-secret-key":  {},
}

// skipLogPrefixes are polled by probes and scrapers.
var skipLogPrefixes = []string{
	"/api/health",
	"/metrics",
	"/swagger",
	"/debug/pprof",
}

func readRequestBody(c echo.Context) []byte {
	var body []byte
	if c.Request().Body != nil {
		body, _ = io.ReadAll(c.Request().Body)
	}
	c.Request().Body = io.NopCloser(bytes.NewBuffer(body))
	return body
}

func maskedHeaders(h http.Header) string {
	headers := make(map[string][]string, len(h))
	for k, vals := range h {
		if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok {
			headers[k] = []string{"*****"}
			continue
		}
		headers[k] = vals
	}

	b, _ := json.Marshal(headers)
	return string(b)
}

func teeResponse(c echo.Context) *bytes.Buffer {
	buf := new(bytes.Buffer)
	c.Response().Writer = &bodyDumpResponseWriter{
		Writer:         io.MultiWriter(c.Response().Writer, buf),
		ResponseWriter: c.Response().Writer,
	}
	return buf
}

func truncate(b []byte) string {
	if len(b) <= maxLoggedBody {
		return string(b)
	}
	return string(b[:maxLoggedBody]) + "...(truncated)"
}

func skipLog(path string) bool {
	for _, prefix := range skipLogPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Logger writes one access log line per request. Bodies are logged for non-2xx responses only.
func (m *AppMiddleware) Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipLog(c.Request().URL.Path) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()
			reqBody := readRequestBody(c)
			resBody := teeResponse(c)

			if err := next(c); err != nil {
				c.Error(err)
			}

			latency := time.Since(start)
			fields := []log.Field{
				log.String("method", req.Method),
				log.String("url_path", req.URL.String()),
				log.String("route", c.Path()),
				log.Int("status", res.Status),
				log.Int64("response_size", res.Size),
				log.Duration("latency", latency),
				log.String("request_header", maskedHeaders(req.Header)),
				log.String("idempotency_key", req.Header.Get(HeaderIdempotencyKey)),
			}
			if res.Status >= http.StatusMultipleChoices {
				fields = append(fields,
					log.String("request_body", truncate(reqBody)),
					log.String("response", truncate(resBody.Bytes())),
				)
			}

			ctx := c.Request().Context()
			message := fmt.Sprintf("%d %s %s %s", res.Status, req.Method, req.URL.Path, latency)

			switch {
			case res.Status >= http.StatusInternalServerError:
				log.Error(ctx, message, fields...)
			case res.Status >= http.StatusMultipleChoices:
				log.Warn(ctx, message, fields...)
			default:
				log.Info(ctx, message, fields...)
			}

			return nil
		}
	}
}
