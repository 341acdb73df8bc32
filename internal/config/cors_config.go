package config

import "strings"

var _ CorsConfig = mainConfig{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func NewAllowedOrigins(origins ...string) AllowedOrigins {
	a := make(AllowedOrigins, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			a[o] = nullValue{}
		}
	}
	return a
}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func (c mainConfig) GetAllowedOrigins() AllowedOrigins {
	return NewAllowedOrigins(c.AllowedOrigins...)
}

func (mainConfig) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (mainConfig) GetAllowedHeaders() string {
	return "Content-Type, Authorization, X-Request-ID"
}
