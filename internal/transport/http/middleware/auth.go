package httpmw

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/logger"
	"github.com/cwrk-planet/practice-service/internal/transport/http/httputil"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

const HeaderUserID = "X-User-ID"

// TokenVerifier проверяет bearer-токен и достаёт из него id пользователя.
type TokenVerifier interface {
	UserID(token string) (domain.UserID, error)
}

// Auth требует Authorization: Bearer. С verifier пользователь берётся из
// подписанного токена; без него из X-User-ID, который ставит шлюз.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				httputil.ErrorMsg(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			var uid domain.UserID
			if verifier != nil {
				id, err := verifier.UserID(token)
				if err != nil {
					logger.FromCtx(r.Context()).Warn("token rejected", slog.Any("err", err))
					httputil.ErrorMsg(w, http.StatusUnauthorized, "invalid token")
					return
				}
				uid = id
			} else {
				raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
				if raw == "" {
					httputil.ErrorMsg(w, http.StatusUnauthorized, "missing X-User-ID")
					return
				}
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					httputil.ErrorMsg(w, http.StatusUnauthorized, "invalid X-User-ID (must be a positive int64)")
					return
				}
				uid = domain.UserID(id)
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// UserIDFromCtx возвращает 0, если запрос не прошёл через Auth.
func UserIDFromCtx(ctx context.Context) domain.UserID {
	if id, ok := ctx.Value(ctxKeyUserID).(domain.UserID); ok {
		return id
	}
	return 0
}
