package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// TestNewLimiter tests the Limiter constructor
func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.bytesPerSecond != 1024*1024 {
			t.Errorf("bytesPerSecond = %d, want %d", limiter.bytesPerSecond, 1024*1024)
		}
	})

	t.Run("ZeroBytesPerSecond", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil (no limiting)")
		}
	})

	t.Run("NegativeBytesPerSecond", func(t *testing.T) {
		if NewLimiter(-100) != nil {
			t.Error("NewLimiter(-100) should return nil (no limiting)")
		}
	})

	t.Run("SmallBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter.bucketSize < 65536 {
			t.Errorf("bucketSize = %d, want at least 65536", limiter.bucketSize)
		}
	})
}

func TestReaderRead(t *testing.T) {
	t.Run("Unlimited", func(t *testing.T) {
		content := strings.Repeat("a", 100000)
		reader := NewReader(context.Background(), strings.NewReader(content), nil)

		data, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(data) != content {
			t.Errorf("read %d bytes, want %d", len(data), len(content))
		}
	})

	t.Run("Limited", func(t *testing.T) {
		content := []byte("hello, archive")
		reader := NewReader(context.Background(), bytes.NewReader(content), NewLimiter(1024*1024))

		data, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(data, content) {
			t.Errorf("data = %q, want %q", data, content)
		}
	})

	t.Run("CancelledBeforeRead", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		reader := NewReader(ctx, strings.NewReader("data"), nil)
		buf := make([]byte, 4)
		if _, err := reader.Read(buf); !errors.Is(err, context.Canceled) {
			t.Errorf("Read() error = %v, want context.Canceled", err)
		}
	})

	t.Run("CancelledWhileThrottled", func(t *testing.T) {
		limiter := NewLimiter(1000)
		limiter.tokens = 0
		limiter.lastUpdate = time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		reader := NewReader(ctx, bytes.NewReader(make([]byte, 65536)), limiter)
		start := time.Now()
		_, err := reader.Read(make([]byte, 65536))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Read() error = %v, want context.DeadlineExceeded", err)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("throttled read ignored cancellation for %v", elapsed)
		}
	})
}

func TestTokenBucket(t *testing.T) {
	t.Run("ConsumeMoreThanAvailable", func(t *testing.T) {
		limiter := NewLimiter(1000)
		limiter.tokens = 100
		limiter.consume(200)
		if limiter.tokens != 0 {
			t.Errorf("tokens = %d, want 0", limiter.tokens)
		}
	})

	t.Run("RefillCapped", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		limiter.tokens = 0
		limiter.lastUpdate = time.Now().Add(-10 * time.Second)
		limiter.refill()
		if limiter.tokens != limiter.bucketSize {
			t.Errorf("tokens = %d, want bucket size %d", limiter.tokens, limiter.bucketSize)
		}
	})
}

func TestParseBandwidth(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"1024", 1024, false},
		{"512K", 512 * 1024, false},
		{"10M", 10 * 1024 * 1024, false},
		{"10mb", 10 * 1024 * 1024, false},
		{"1G", 1 << 30, false},
		{"1.5M", 1572864, false},
		{"fast", 0, true},
		{"-5M", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBandwidth(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBandwidth(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBandwidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
