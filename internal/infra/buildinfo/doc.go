// Package buildinfo exposes version information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/hwdesk-go/internal/infra/buildinfo.Version=v0.3.0 \
//	  -X github.com/yndnr/hwdesk-go/internal/infra/buildinfo.Commit=abc123"
//
// GoVersion falls back to the running toolchain when not injected.
package buildinfo
