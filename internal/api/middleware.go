package api

import (
	"fmt"
	"net/http"
)

func (a *RelayApp) recoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				a.log.Printf("panic: %v", panicError)
				w.Header().Set("Connection", "close")
				a.writeJson(w, http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}
