package gateway

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
)

// Signer 是 REST 通道要求但不自带的认证能力：对一条请求指令产生签名头。
// 具体方案（密钥格式、指令拼接）由实现决定，可插拔替换。
type Signer interface {
	Sign(instruction string, params string, ts time.Time) (headers map[string]string, err error)
}

// Ed25519Signer 按 Backpack 的约定做 ED25519 签名：
// message = instruction=<op>&<sorted params>&timestamp=<ms>&window=<ms>。
type Ed25519Signer struct {
	APIKey   string // base64 公钥
	priv     ed25519.PrivateKey
	WindowMs int64
}

// NewEd25519Signer 从 base64 编码的私钥种子构造签名器。
func NewEd25519Signer(apiKey, secretB64 string) (*Ed25519Signer, error) {
	seed, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, fmt.Errorf("decode api secret: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("api secret must be a %d-byte ed25519 seed, got %d", ed25519.SeedSize, len(seed))
	}
	return &Ed25519Signer{
		APIKey:   apiKey,
		priv:     ed25519.NewKeyFromSeed(seed),
		WindowMs: 5000,
	}, nil
}

func (s *Ed25519Signer) Sign(instruction string, params string, ts time.Time) (map[string]string, error) {
	if len(s.priv) == 0 {
		return nil, ErrSignerRequired
	}
	window := s.WindowMs
	if window <= 0 {
		window = 5000
	}
	tsMs := strconv.FormatInt(ts.UnixMilli(), 10)
	msg := "instruction=" + instruction
	if params != "" {
		msg += "&" + params
	}
	msg += "&timestamp=" + tsMs + "&window=" + strconv.FormatInt(window, 10)

	sig := ed25519.Sign(s.priv, []byte(msg))
	return map[string]string{
		"X-API-KEY":   s.APIKey,
		"X-SIGNATURE": base64.StdEncoding.EncodeToString(sig),
		"X-TIMESTAMP": tsMs,
		"X-WINDOW":    strconv.FormatInt(window, 10),
	}, nil
}
