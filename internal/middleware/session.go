package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

// SessionHeader carries the browser tab's dashboard session id.
const SessionHeader = "X-Dashboard-Session"

const SessionKey contextKey = "session"

const maxSessionIDLen = 128

// Session reads the dashboard session id from SessionHeader, generating one
// when absent or oversized, and echoes it back on the response.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(SessionHeader)
		if sid == "" || len(sid) > maxSessionIDLen {
			sid = uuid.NewString()
		}
		w.Header().Set(SessionHeader, sid)

		ctx := context.WithValue(r.Context(), SessionKey, sid)
		_, ctx = logger.With(ctx, "session_id", sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(SessionKey).(string)
	return sid
}
