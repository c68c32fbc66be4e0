package metadata

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
)

func TestNewPairs(t *testing.T) {
	md := New("channel", "support-tickets", "partition_key", "T001")
	if md["channel"] != "support-tickets" {
		t.Fatalf("channel = %q, want support-tickets", md["channel"])
	}
	if md["partition_key"] != "T001" {
		t.Fatalf("partition_key = %q, want T001", md["partition_key"])
	}
}

func TestNewDropsTrailingKey(t *testing.T) {
	md := New("channel", "support-tickets", "dangling")
	if len(md) != 1 {
		t.Fatalf("len = %d, want 1", len(md))
	}
	if _, ok := md["dangling"]; ok {
		t.Fatal("trailing key without value should be dropped")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	original := Metadata{"channel": "support-tickets", "method": "ticket.raw_received"}
	clone := original.Clone()
	clone["channel"] = "ai-responses"

	if original["channel"] != "support-tickets" {
		t.Fatalf("original mutated: channel = %q", original["channel"])
	}
	if len(clone) != len(original) {
		t.Fatalf("clone len = %d, want %d", len(clone), len(original))
	}
}

func TestCloneNilReceiver(t *testing.T) {
	var m Metadata
	cloned := m.Clone()
	if cloned == nil {
		t.Fatal("clone of nil metadata should be a usable map")
	}
	if len(cloned) != 0 {
		t.Fatalf("len = %d, want 0", len(cloned))
	}
}

func TestWithLeavesReceiverIntact(t *testing.T) {
	base := Metadata{"channel": "processed-tickets"}
	enriched := base.With("partition_key", "T002")

	if _, ok := base["partition_key"]; ok {
		t.Fatal("With should not mutate the receiver")
	}
	if enriched["partition_key"] != "T002" {
		t.Fatalf("partition_key = %q, want T002", enriched["partition_key"])
	}
	if enriched["channel"] != "processed-tickets" {
		t.Fatal("With should carry existing entries")
	}
}

func TestWithAllMergesAndOverrides(t *testing.T) {
	base := Metadata{"encoding": "json", "channel": "ai-responses"}
	merged := base.WithAll(Metadata{"encoding": "jsonrpc", "method": "ai.response_generated"})

	if merged["encoding"] != "jsonrpc" {
		t.Fatalf("encoding = %q, want jsonrpc", merged["encoding"])
	}
	if merged["method"] != "ai.response_generated" {
		t.Fatal("WithAll should add new entries")
	}
	if base["encoding"] != "json" {
		t.Fatal("WithAll should not mutate the receiver")
	}
}

func TestToAndFromWatermill(t *testing.T) {
	md := New("channel", "support-tickets", "partition_key", "T003")
	wm := ToWatermill(md)
	if wm["partition_key"] != "T003" {
		t.Fatal("ToWatermill should copy entries")
	}
	wm["partition_key"] = "T999"
	if md["partition_key"] != "T003" {
		t.Fatal("mutating the watermill map should not touch the source")
	}

	if len(ToWatermill(nil)) != 0 {
		t.Fatal("nil input should convert to an empty map")
	}

	back := FromWatermill(message.Metadata{"method": "ticket.processed"})
	if back["method"] != "ticket.processed" {
		t.Fatal("FromWatermill should copy entries")
	}
}

func TestFromWatermillNil(t *testing.T) {
	md := FromWatermill(nil)
	if md == nil {
		t.Fatal("nil input should convert to a usable map")
	}
	if len(md) != 0 {
		t.Fatalf("len = %d, want 0", len(md))
	}
}
