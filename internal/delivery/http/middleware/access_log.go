package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// AccessLogMiddleware logs one line per request. Websocket upgrades are
// logged when the upgrade is answered, not when the socket closes.
type AccessLogMiddleware struct {
	logger *log.Logger
	now    func() time.Time
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, now: time.Now}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := m.now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		kind := "http"
		if strings.EqualFold(c.Get(fiber.HeaderUpgrade), "websocket") {
			kind = "ws"
		}
		line := []any{
			rid, kind, c.IP(), c.Method(), c.OriginalURL(),
			c.Response().StatusCode(), m.now().Sub(start),
			len(c.Response().Body()),
		}
		format := "HTTP access | rid=%s kind=%s ip=%s method=%s path=%s status=%d latency=%s resp_bytes=%d"
		if hit := c.GetRespHeader("X-Cache"); hit != "" {
			format += " cache=%s"
			line = append(line, hit)
		}
		m.logger.Printf(format, line...)

		return err
	}
}
