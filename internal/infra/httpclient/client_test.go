package httpclient

import (
	"testing"
	"time"

	"github.com/varontron/mutation-mapper/internal/domain"
)

func TestFromRemote(t *testing.T) {
	cfg := FromRemote(domain.RemoteConfig{Timeout: 3 * time.Second})
	if cfg.Timeout != 3*time.Second || cfg.ResponseHeader != 3*time.Second {
		t.Fatalf("remote timeout not applied: %+v", cfg)
	}
	if cfg.DialTimeout != DefaultConfig().DialTimeout {
		t.Fatalf("dial timeout should keep its default, got %v", cfg.DialTimeout)
	}

	if got := FromRemote(domain.RemoteConfig{}); got != DefaultConfig() {
		t.Fatalf("zero remote should keep defaults, got %+v", got)
	}
}

func TestNewTransport(t *testing.T) {
	cfg := DefaultConfig()
	tr := NewTransport(cfg)
	if tr.ResponseHeaderTimeout != cfg.ResponseHeader {
		t.Fatalf("ResponseHeaderTimeout = %v, want %v", tr.ResponseHeaderTimeout, cfg.ResponseHeader)
	}
	if tr.MaxIdleConnsPerHost != cfg.MaxIdleConnsPerHost || tr.IdleConnTimeout != cfg.IdleConnTimeout {
		t.Fatalf("idle settings not applied: %+v", tr)
	}
}
