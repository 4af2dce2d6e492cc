package strategy

import (
	"math"
	"testing"
	"time"

	"grid-maker-go/market"
	"grid-maker-go/order"
)

func baseConfig() GridConfig {
	return GridConfig{
		StepBps:       10,
		BidLevels:     2,
		AskLevels:     2,
		OrderUSD:      10,
		MaxDevBps:     25,
		TopChaseTicks: 1,
		EnableBids:    true,
		EnableAsks:    true,
	}
}

func snapAtMid(mid, spreadBps float64) market.Snapshot {
	half := mid * spreadBps / 10000
	return market.Snapshot{Bid: mid - half, Ask: mid + half, Ts: time.Now()}
}

func TestPlanLadderLevels(t *testing.T) {
	// mid=150, stepBps=10, depth=2：买 {149.85, 149.70}，卖 {150.15, 150.30}
	snap := market.Snapshot{Bid: 150.0, Ask: 150.0, Ts: time.Now()}
	bids, asks := PlanLadder(snap, baseConfig(), time.Now())
	wantBids := []float64{149.85, 149.70}
	wantAsks := []float64{150.15, 150.30}
	if len(bids) != 2 || len(asks) != 2 {
		t.Fatalf("got %d bids %d asks, want 2/2", len(bids), len(asks))
	}
	for i, w := range wantBids {
		if math.Abs(bids[i].Price-w) > 1e-9 {
			t.Fatalf("bid %d = %f, want %f", i, bids[i].Price, w)
		}
	}
	for i, w := range wantAsks {
		if math.Abs(asks[i].Price-w) > 1e-9 {
			t.Fatalf("ask %d = %f, want %f", i, asks[i].Price, w)
		}
	}
	for _, o := range append(bids, asks...) {
		if o.NotionalUSD != 10 {
			t.Fatalf("notional = %f, want uniform 10", o.NotionalUSD)
		}
	}
}

func TestPlanLadderMaxDeviation(t *testing.T) {
	cfg := baseConfig()
	cfg.BidLevels = 10
	cfg.AskLevels = 10
	cfg.MaxDevBps = 25
	snap := snapAtMid(150.0, 2.0)
	bids, asks := PlanLadder(snap, cfg, time.Now())
	mid := snap.Mid()
	for _, o := range append(bids, asks...) {
		dev := math.Abs((o.Price-mid)/mid) * 10000
		if dev > cfg.MaxDevBps+1e-9 {
			t.Fatalf("level %f deviates %f bps > %f", o.Price, dev, cfg.MaxDevBps)
		}
	}
	// stepBps=10、上限 25bps 时每侧只剩 2 档
	if len(bids) != 2 || len(asks) != 2 {
		t.Fatalf("got %d bids %d asks after deviation cap, want 2/2", len(bids), len(asks))
	}
}

func TestPlanLadderJoinBestClamp(t *testing.T) {
	cfg := baseConfig()
	cfg.JoinBest = true
	cfg.TopChaseTicks = 100 // 强推进也不能越过盘口
	snap := snapAtMid(150.0, 2.0)
	bids, asks := PlanLadder(snap, cfg, time.Now())
	if bids[0].Price > snap.Bid {
		t.Fatalf("nearest bid %f crosses live bid %f", bids[0].Price, snap.Bid)
	}
	if asks[0].Price < snap.Ask {
		t.Fatalf("nearest ask %f crosses live ask %f", asks[0].Price, snap.Ask)
	}
}

func TestPlanLadderJoinBestNudges(t *testing.T) {
	cfg := baseConfig()
	cfg.JoinBest = true
	snap := snapAtMid(150.0, 2.0)
	plain, _ := PlanLadder(snap, baseConfig(), time.Now())
	nudged, _ := PlanLadder(snap, cfg, time.Now())
	if nudged[0].Price <= plain[0].Price {
		t.Fatalf("join-best did not raise nearest bid: %f <= %f", nudged[0].Price, plain[0].Price)
	}
	// 外侧档位不受影响
	if nudged[1].Price != plain[1].Price {
		t.Fatalf("outer bid moved: %f != %f", nudged[1].Price, plain[1].Price)
	}
}

func TestPlanLadderSideToggles(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableBids = false
	bids, asks := PlanLadder(snapAtMid(150.0, 2.0), cfg, time.Now())
	if len(bids) != 0 {
		t.Fatalf("bids disabled but got %d", len(bids))
	}
	if len(asks) != 2 {
		t.Fatalf("asks = %d, want 2", len(asks))
	}
}

func TestPlanLadderStrictMaker(t *testing.T) {
	cfg := baseConfig()
	cfg.StrictMaker = true
	// 极宽盘口：最内档可能落在对手价内侧
	snap := market.Snapshot{Bid: 149.0, Ask: 151.0, Ts: time.Now()}
	bids, asks := PlanLadder(snap, cfg, time.Now())
	for _, o := range bids {
		if o.Side != order.SideBuy || o.Price >= snap.Ask {
			t.Fatalf("strict-maker bid would cross: %+v", o)
		}
	}
	for _, o := range asks {
		if o.Side != order.SideSell || o.Price <= snap.Bid {
			t.Fatalf("strict-maker ask would cross: %+v", o)
		}
	}
}

func TestPlanLadderReproduciblePrices(t *testing.T) {
	snap := snapAtMid(150.0, 2.0)
	now := time.Now()
	b1, a1 := PlanLadder(snap, baseConfig(), now)
	b2, a2 := PlanLadder(snap, baseConfig(), now)
	for i := range b1 {
		if b1[i].Price != b2[i].Price {
			t.Fatalf("bid prices not reproducible at %d", i)
		}
	}
	for i := range a1 {
		if a1[i].Price != a2[i].Price {
			t.Fatalf("ask prices not reproducible at %d", i)
		}
	}
}
