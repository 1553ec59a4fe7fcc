package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	// ゲストセッションのcookie名
	GuestCookieName = "guest_session"

	CtxGuestTokenKey = "guest_token" // string（未設定なら空）
)

// GuestSession はcookieからゲストトークンを抜いてcontextに置くだけ。
// 検証・発行はハンドラ側（読み取り系は発行しない）。
func GuestSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if ck, err := c.Cookie(GuestCookieName); err == nil && ck != nil {
				token = ck.Value
			}
			c.Set(CtxGuestTokenKey, token)
			return next(c)
		}
	}
}
