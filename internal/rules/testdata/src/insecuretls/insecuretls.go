package insecuretls

import "crypto/tls"

func configs(skip bool) []*tls.Config {
	return []*tls.Config{
		{InsecureSkipVerify: true},     // want `TLS certificate verification disabled by InsecureSkipVerify`
		{MinVersion: tls.VersionTLS10}, // want `TLS MinVersion 0x0*301 allows protocol versions below TLS 1.2`
		{ServerName: "example.com", MinVersion: tls.VersionTLS12},
		{InsecureSkipVerify: false},
		{InsecureSkipVerify: skip},
	}
}

func client() *tls.Config {
	return &tls.Config{ServerName: "example.com", InsecureSkipVerify: true} // want `TLS certificate verification disabled`
}
