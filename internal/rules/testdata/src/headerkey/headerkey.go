package headerkey

import "net/http"

func headers(h http.Header, r *http.Request, key string) string {
	h["content-type"] = []string{"text/plain"} // want `header key "content-type" is not canonical; use "Content-Type" or Header.Get`
	_ = r.Header["x-request-id"]               // want `header key "x-request-id" is not canonical; use "X-Request-Id" or Header.Get`
	_ = h["Content-Type"]
	_ = h[key]
	m := map[string][]string{}
	_ = m["content-type"]
	return h.Get("content-type")
}
