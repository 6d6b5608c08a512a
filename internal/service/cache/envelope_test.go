package cache

import (
	"testing"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
)

func TestDatasetEnvelopeFreshness(t *testing.T) {
	written := time.Now()
	ttl := time.Hour
	envelope := &DatasetEnvelope{
		Dataset:   domain.NewPerkDataset(domain.CategorySurvivor, nil),
		WrittenAt: written,
	}

	if !envelope.IsFresh(written.Add(ttl), ttl) {
		t.Error("envelope at exactly ttl should still be fresh")
	}
	if !envelope.IsFresh(written.Add(ttl-time.Millisecond), ttl) {
		t.Error("envelope inside ttl should be fresh")
	}
	if envelope.IsFresh(written.Add(ttl+time.Millisecond), ttl) {
		t.Error("envelope past ttl should be stale")
	}
}

func TestDatasetEnvelopeNilIsStale(t *testing.T) {
	var envelope *DatasetEnvelope
	if envelope.IsFresh(time.Now(), time.Hour) {
		t.Error("nil envelope should be stale")
	}

	empty := &DatasetEnvelope{WrittenAt: time.Now()}
	if empty.IsFresh(time.Now(), time.Hour) {
		t.Error("envelope without dataset should be stale")
	}
}
