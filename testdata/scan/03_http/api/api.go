package api

import (
	"io"
	"net/http"
)

func Handle(w http.ResponseWriter, r *http.Request) {
	if r.Header["authorization"] == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func Echo(w http.ResponseWriter, r *http.Request) error {
	_, err := io.Copy(w, r.Body)
	return err
}
