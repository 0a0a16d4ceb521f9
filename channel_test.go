package main

import "testing"

func TestChannelAddLineTrimsToCapacity(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	size := 3
	ch.setBufferSize(&size)

	for i := 0; i < 5; i++ {
		ch.addLine("alice", "line")
	}

	buffer := ch.bufferSnapshot()
	if len(buffer) != 3 {
		t.Fatalf("buffer size = %d, wanted 3", len(buffer))
	}
}

func TestChannelAddLineCappedAtBuiltinLimit(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	huge := builtinBufferLimit + 500
	ch.setBufferSize(&huge)

	capacity := ch.capacityLocked()
	if capacity != builtinBufferLimit {
		t.Fatalf("capacity = %d, wanted %d", capacity, builtinBufferLimit)
	}
}

func TestChannelReplayLinesDefaultsToTen(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	for i := 0; i < 20; i++ {
		ch.addLine("alice", "line")
	}
	replay := ch.replayLines()
	if len(replay) != defaultReplaySize {
		t.Fatalf("replay length = %d, wanted %d", len(replay), defaultReplaySize)
	}
}

func TestChannelReplayLinesNilMeansWholeBuffer(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	ch.setReplaySize(nil)
	for i := 0; i < 15; i++ {
		ch.addLine("alice", "line")
	}
	replay := ch.replayLines()
	if len(replay) != 15 {
		t.Fatalf("replay length = %d, wanted 15", len(replay))
	}
}

func TestChannelMuteInvariantEmptiesKeyOnLastRemoval(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	if !ch.addMute("bob", "alice") {
		t.Fatal("first mute should succeed")
	}
	if ch.addMute("bob", "alice") {
		t.Fatal("duplicate mute should fail")
	}
	if !ch.removeMute("bob", "alice") {
		t.Fatal("removeMute should succeed")
	}
	ch.mu.Lock()
	_, present := ch.MutedToMuter["bob"]
	ch.mu.Unlock()
	if present {
		t.Fatal("muted_to_muter[bob] should be deleted once empty")
	}
}

func TestChannelKickIsConsumedOnce(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	ch.kick("bob")
	if !ch.consumeKick("bob") {
		t.Fatal("first consumeKick should report the kick")
	}
	if ch.consumeKick("bob") {
		t.Fatal("second consumeKick should find nothing left")
	}
}

func TestChannelBanRoundTrip(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	if !ch.addBan("bob") {
		t.Fatal("addBan should succeed for a new name")
	}
	if ch.addBan("bob") {
		t.Fatal("addBan should fail for an already-banned name")
	}
	if !ch.isBanned("bob") {
		t.Fatal("bob should be banned")
	}
	if !ch.removeBan("bob") {
		t.Fatal("removeBan should succeed")
	}
	if ch.isBanned("bob") {
		t.Fatal("bob should no longer be banned")
	}
}

func TestChannelPurgeAccountClearsModerationState(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	ch.addBan("bob")
	ch.addMute("carol", "bob")
	ch.purgeAccount("bob")

	if ch.isBanned("bob") {
		t.Fatal("purgeAccount should clear bans referencing the name")
	}
	if ch.hasMuted("carol", "bob") {
		t.Fatal("purgeAccount should remove the name as a muter")
	}
}

func TestChannelAdminLockIsSingleWriter(t *testing.T) {
	ch := newChannel(1, "test", "alice")
	ok, _ := ch.tryAcquireAdmin("alice")
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	ok, holder := ch.tryAcquireAdmin("bob")
	if ok {
		t.Fatal("second acquire should fail while alice holds the lock")
	}
	if holder != "alice" {
		t.Fatalf("holder = %q, wanted alice", holder)
	}
	ch.releaseAdmin()
	ok, _ = ch.tryAcquireAdmin("bob")
	if !ok {
		t.Fatal("acquire should succeed once released")
	}
}
