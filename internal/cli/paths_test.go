package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/causalab/gies/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", customCache)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"24h", 24 * time.Hour, false},
		{"90s", 90 * time.Second, false},
		{"-5m", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseTTL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTTL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTTL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	c, err := newCache(ctx, CacheConfig{Backend: cacheNone})
	if err != nil {
		t.Fatalf("newCache(none) error: %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("newCache(none) = %T, want *cache.NullCache", c)
	}

	c, err = newCache(ctx, CacheConfig{Backend: cacheMemory})
	if err != nil {
		t.Fatalf("newCache(memory) error: %v", err)
	}
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Errorf("newCache(memory) = %T, want *cache.MemoryCache", c)
	}

	c, err = newCache(ctx, CacheConfig{Backend: cacheFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("newCache(file) error: %v", err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("newCache(file) = %T, want *cache.FileCache", c)
	}

	if _, err := newCache(ctx, CacheConfig{Backend: "carrier-pigeon"}); err == nil {
		t.Error("newCache with unknown backend should fail")
	}
}

func TestParseDegrees(t *testing.T) {
	got := parseDegrees("0.3")
	if len(got) != 1 || got[0] != 0.3 {
		t.Errorf("parseDegrees(0.3) = %v, want [0.3]", got)
	}

	got = parseDegrees("1, 2, 3")
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("parseDegrees(1, 2, 3) = %v, want [1 2 3]", got)
	}

	got = parseDegrees("bad")
	if len(got) != 1 || got[0] != -1 {
		t.Errorf("parseDegrees(bad) = %v, want [-1]", got)
	}
}
