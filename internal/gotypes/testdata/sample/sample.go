package sample

import (
	"crypto/md5"
	"crypto/tls"
	"net/http"
	"os"
	"os/exec"
	"sync/atomic"
)

type RotatingFile struct{ *os.File }

func run(f *os.File, script string, data []byte, fn func(int)) {
	_ = md5.Sum(data)
	_ = &tls.Config{ServerName: "x", InsecureSkipVerify: true}
	_ = tls.Config{}
	_ = exec.Command("sh", "-c", script)
	h := http.Header{}
	_ = h["content-type"]
	f.Write(data)
	var p atomic.Pointer[int]
	p.Load()
	_ = []byte(script)
	_ = len(data)
	fn(1)
	_ = data[0]
}
