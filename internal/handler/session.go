package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionResolver はゲストセッションの解決をハンドラ間で共有する。
// 読み取り系は forRead（発行しない）、書き込み系は forWrite（発行＋cookie更新）。
type SessionResolver struct {
	uc  *usecase.SessionUsecase
	cfg config.Config
}

func NewSessionResolver(uc *usecase.SessionUsecase, cfg config.Config) *SessionResolver {
	return &SessionResolver{uc: uc, cfg: cfg}
}

func guestTokenFromContext(c echo.Context) string {
	v := c.Get(middleware.CtxGuestTokenKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// 読み取り経路。セッションが無ければ guestID=0 を返す（行は作らない）。
func (s *SessionResolver) forRead(c echo.Context) (int64, error) {
	g, ok, err := s.uc.ResolveForRead(c.Request().Context(), guestTokenFromContext(c))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return g.ID, nil
}

// 書き込み経路。必要ならセッションを発行し、cookieを30日で更新する。
func (s *SessionResolver) forWrite(c echo.Context) (int64, error) {
	g, err := s.uc.ResolveOrProvisionForWrite(c.Request().Context(), guestTokenFromContext(c))
	if err != nil {
		return 0, err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.GuestCookieName,
		Value:    g.Token,
		Path:     "/",
		Domain:   s.cfg.APIDomain,
		Expires:  g.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.GoEnv == "prod",
		SameSite: http.SameSiteLaxMode,
	})

	return g.ID, nil
}
