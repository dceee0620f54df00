// Package mock generates a synthetic telemetry workload so the engine can be
// exercised without a real Wi-Fi stack underneath.
package mock

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/services/aggregate"
	"github.com/netgauge/wifitel/internal/core/services/session"
)

// Common SSIDs for realistic mock data
var commonSSIDs = []string{
	"HomeNetwork", "NETGEAR-5G", "Starbucks WiFi", "TP-Link_2.4GHz",
	"Linksys", "ATT-WiFi", "Xfinity", "Google Fiber",
	"Office-Network", "Guest-WiFi", "MyWiFi", "Home-2.4G",
}

var frequencies = []int{2412, 2437, 2462, 5180, 5220, 5745, 5785}

// Producer feeds the aggregation store with a plausible stream of producer
// events: connection attempts, per-second usability polls, scans, and the
// occasional unusable-link report.
type Producer struct {
	store *aggregate.Store
	rng   *rand.Rand

	iface     string
	connected bool
	rssi      int
	score     int
	txSuccess int64
	rxSuccess int64
}

func NewProducer(store *aggregate.Store) *Producer {
	return &Producer{
		store: store,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		iface: "wlan0",
		rssi:  -60,
		score: 50,
	}
}

// Run drives the store until ctx is cancelled. One tick per second, matching
// the real poll cadence.
func (p *Producer) Run(ctx context.Context) {
	slog.Info("mock producer started", "interface", p.iface)
	p.store.EnterDeviceMobilityState(domain.MobilityStationary)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("mock producer stopped")
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Producer) tick() {
	if !p.connected {
		p.connect()
		return
	}

	p.poll()

	switch {
	case p.rng.Intn(100) < 3:
		p.disconnect()
	case p.rng.Intn(100) < 5:
		p.store.LogWifiIsUnusableEvent(domain.UnusableDataStallBadTx)
	case p.rng.Intn(100) < 8:
		p.store.NoteScanComplete(true, 5+p.rng.Intn(20))
	}

	if p.rng.Intn(100) < 10 {
		p.store.NoteWifiHealthPoll(true)
	}
}

func (p *Producer) connect() {
	ssid := commonSSIDs[p.rng.Intn(len(commonSSIDs))]
	freq := frequencies[p.rng.Intn(len(frequencies))]

	p.store.StartConnectionEvent(p.iface, session.StartParams{
		NetworkID:         p.rng.Intn(16),
		ConfigFingerprint: ssid,
		SSID:              ssid,
		Nominator:         domain.NominatorSaved,
	})
	p.store.SetConnectionScanDetail(p.iface, domain.ScanDetail{
		DTIMPeriod:      1 + p.rng.Intn(3),
		AuthType:        domain.AuthPSK,
		FrequencyMhz:    freq,
		ChannelWidthMhz: 80,
	})

	// Most attempts succeed; the rest fail association.
	if p.rng.Intn(10) < 9 {
		p.store.EndConnectionEvent(p.iface, session.EndParams{FailureCode: domain.FailureNone})
		p.connected = true
		p.rssi = -75 + p.rng.Intn(30)
		p.score = 40 + p.rng.Intn(20)
	} else {
		p.store.EndConnectionEvent(p.iface, session.EndParams{
			FailureCode:   domain.FailureAssociationRejection,
			FailureReason: 17,
		})
	}
}

func (p *Producer) poll() {
	p.rssi += p.rng.Intn(5) - 2
	if p.rssi > -30 {
		p.rssi = -30
	}
	if p.rssi < -95 {
		p.rssi = -95
	}
	p.score += p.rng.Intn(3) - 1
	if p.score > 60 {
		p.score = 60
	}
	if p.score < 0 {
		p.score = 0
	}
	p.txSuccess += int64(p.rng.Intn(500))
	p.rxSuccess += int64(p.rng.Intn(800))

	p.store.UpdateWifiUsabilityStatsEntries(p.iface, domain.UsabilityStatsEntry{
		RSSI:          p.rssi,
		LinkSpeedMbps: 100 + p.rng.Intn(400),
		Frequency:     5180,
		Link: domain.LinkStats{
			TxSuccess: p.txSuccess,
			RxSuccess: p.rxSuccess,
		},
		WifiScore: p.score,
	})
	p.store.RecordThroughput(int64(1000 + p.rng.Intn(90000)))
}

func (p *Producer) disconnect() {
	p.store.NoteDisconnect(p.iface, 3, int64(30+p.rng.Intn(600)))
	p.connected = false
}
