package gateway

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grid-maker-go/order"
)

func orderFixture() order.Order {
	return order.New(order.SideBuy, 150.0, 10.0, time.Now())
}

func testSigner(t *testing.T) *Ed25519Signer {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	s, err := NewEd25519Signer("pubkey", base64.StdEncoding.EncodeToString(seed))
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	return s
}

func TestRESTClientSubmitCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-SIGNATURE") == "" || r.Header.Get("X-API-KEY") == "" {
			t.Fatalf("unsigned request reached server")
		}
		switch r.Method {
		case http.MethodPost:
			io.WriteString(w, `{"id":"bp-1001"}`)
		case http.MethodDelete:
			w.WriteHeader(200)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer ts.Close()

	cli := NewRESTClient(ts.URL, "SOL_USDC_PERP", testSigner(t), nil)
	cli.HTTPClient = ts.Client()

	o := order.New(order.SideBuy, 150.0, 10.0, time.Now())
	handle, err := cli.Submit(context.Background(), o)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if handle != "bp-1001" {
		t.Fatalf("handle = %s, want bp-1001", handle)
	}
	if err := cli.Cancel(context.Background(), handle); err != nil {
		t.Fatalf("cancel: %v", err)
	}
}

func TestRESTClientRequiresSigner(t *testing.T) {
	cli := NewRESTClient("https://api.backpack.exchange", "SOL_USDC_PERP", nil, nil)
	_, err := cli.Submit(context.Background(), order.New(order.SideBuy, 150, 10, time.Now()))
	if !errors.Is(err, ErrSignerRequired) {
		t.Fatalf("expected ErrSignerRequired, got %v", err)
	}
	if err := cli.Cancel(context.Background(), "x"); !errors.Is(err, ErrSignerRequired) {
		t.Fatalf("expected ErrSignerRequired on cancel, got %v", err)
	}
}

func TestRESTClientErrorMeansOrderAbsent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cli := NewRESTClient(ts.URL, "SOL_USDC_PERP", testSigner(t), nil)
	cli.HTTPClient = ts.Client()
	handle, err := cli.Submit(context.Background(), order.New(order.SideBuy, 150, 10, time.Now()))
	if err == nil || handle != "" {
		t.Fatalf("expected error and empty handle, got %q %v", handle, err)
	}
}

func TestEd25519SignerDeterministic(t *testing.T) {
	s := testSigner(t)
	ts := time.UnixMilli(1234567890000)
	h1, err := s.Sign("orderExecute", "price=1&symbol=X", ts)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	h2, _ := s.Sign("orderExecute", "price=1&symbol=X", ts)
	if h1["X-SIGNATURE"] != h2["X-SIGNATURE"] {
		t.Fatal("same message should sign identically")
	}
	if h1["X-TIMESTAMP"] != "1234567890000" {
		t.Fatalf("timestamp header = %s", h1["X-TIMESTAMP"])
	}
	h3, _ := s.Sign("orderCancel", "price=1&symbol=X", ts)
	if h1["X-SIGNATURE"] == h3["X-SIGNATURE"] {
		t.Fatal("different instruction must change signature")
	}
}

func TestEd25519SignerRejectsBadSeed(t *testing.T) {
	if _, err := NewEd25519Signer("k", "not-base64!!!"); err == nil {
		t.Fatal("expected decode error")
	}
	short := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := NewEd25519Signer("k", short); err == nil {
		t.Fatal("expected seed length error")
	}
}
