package middleware

import (
	"net/http"
	"strings"

	"swiftlogix/internal/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CtxUserIDKey  = "user_id"  // string(uuid)
	CtxSessionKey = "session"  // *session.Session
	CtxIsAdminKey = "is_admin" // bool

	// ブラウザ遷移用（Authorizationヘッダが付かない）
	AccessTokenCookie = "sb-access-token"

	SignInPath = "/auth"
	HomePath   = "/"

	msgRoleCheckFailed = "Could not verify your permissions. Please try again."
)

// Bearerヘッダ → cookie の順でaccess tokenを探す
func ExtractToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := r.Cookie(AccessTokenCookie); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

// tokenがあればsessionをcontextに入れる。無くても通す
func LoadSession(verifier *session.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s, err := verifier.Verify(ExtractToken(c.Request())); err == nil {
				setSession(c, s)
			}
			return next(c)
		}
	}
}

// ログイン必須
func RequireSession(verifier *session.TokenVerifier) echo.MiddlewareFunc {
	return guard(session.RequireSession, verifier, nil, zap.NewNop())
}

// 管理者のみ。has_roleの結果が出るまで通さない
func RequireAdmin(verifier *session.TokenVerifier, resolver *session.Resolver, logger *zap.Logger) echo.MiddlewareFunc {
	return guard(session.RequireAdmin, verifier, resolver, logger)
}

func guard(req session.Requirement, verifier *session.TokenVerifier, resolver *session.Resolver, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//不正・期限切れのtokenは未ログイン扱い
			s, err := verifier.Verify(ExtractToken(c.Request()))
			if err != nil {
				s = nil
			}

			var r *session.Resolver
			if req == session.RequireAdmin {
				r = resolver
			}
			w := session.NewWatcher(session.NewRequestProvider(s), r, nil)
			defer w.Close()
			st := w.Start(c.Request().Context())

			if req == session.RequireAdmin && st.Session != nil && st.Err != nil {
				logger.Warn("role check failed",
					zap.String("user_id", st.Session.UserID),
					zap.Error(st.Err),
				)
				return c.JSON(http.StatusServiceUnavailable, errorJSON(msgRoleCheckFailed))
			}

			switch session.Decide(req, st) {
			case session.DecisionRender:
				setSession(c, st.Session)
				c.Set(CtxIsAdminKey, st.IsAdmin)
				return next(c)
			case session.DecisionRedirectSignIn:
				if wantsHTML(c) {
					return c.Redirect(http.StatusFound, SignInPath)
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			case session.DecisionRedirectHome:
				if wantsHTML(c) {
					return c.Redirect(http.StatusFound, HomePath)
				}
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			default:
				return c.JSON(http.StatusServiceUnavailable, errorJSON(msgRoleCheckFailed))
			}
		}
	}
}

func setSession(c echo.Context, s *session.Session) {
	c.Set(CtxSessionKey, s)
	c.Set(CtxUserIDKey, s.UserID)
}

// ブラウザの画面遷移かどうか
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
