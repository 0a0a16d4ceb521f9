package main

import "testing"

func TestAccountRegistryFirstRegistrantIsAdministrator(t *testing.T) {
	r := newAccountRegistry()

	alice, err := r.register("alice", "pw1")
	if err != nil {
		t.Fatalf("register alice: %s", err)
	}
	if !alice.isAdministrator() {
		t.Fatal("the first registered account should be an administrator")
	}

	bob, err := r.register("bob", "pw2")
	if err != nil {
		t.Fatalf("register bob: %s", err)
	}
	if bob.isAdministrator() {
		t.Fatal("later registered accounts should not be administrators")
	}
}

func TestAccountRegistryRejectsDuplicateName(t *testing.T) {
	r := newAccountRegistry()
	if _, err := r.register("alice", "pw1"); err != nil {
		t.Fatalf("register alice: %s", err)
	}
	if _, err := r.register("alice", "pw2"); err == nil {
		t.Fatal("registering a duplicate name should fail")
	}
}

func TestAccountRegistryRemoveCascadesContacts(t *testing.T) {
	r := newAccountRegistry()
	alice, _ := r.register("alice", "pw1")
	bob, _ := r.register("bob", "pw2")
	bob.addContact("alice")

	channels := newChannelRegistry()
	r.remove("alice", channels)

	if r.exists("alice") {
		t.Fatal("alice should no longer be registered")
	}
	for _, c := range bob.contactsSnapshot() {
		if c == "alice" {
			t.Fatal("bob's contact list should no longer reference alice")
		}
	}
	_ = alice
}

func TestChannelRegistryGetOrCreate(t *testing.T) {
	r := newChannelRegistry()

	ch, created := r.getOrCreate("general", "alice")
	if !created {
		t.Fatal("first getOrCreate should report creation")
	}

	again, created := r.getOrCreate("general", "bob")
	if created {
		t.Fatal("second getOrCreate for the same name should not create")
	}
	if again != ch {
		t.Fatal("second getOrCreate should return the same channel")
	}
	if again.ownerName() != "alice" {
		t.Fatal("owner should remain the original creator")
	}
}

func TestChannelRegistryRenameRejectsTakenName(t *testing.T) {
	r := newChannelRegistry()
	r.getOrCreate("general", "alice")
	r.getOrCreate("random", "bob")

	if r.rename("general", "random") {
		t.Fatal("rename to an already-taken name should fail")
	}
	if !r.rename("general", "chitchat") {
		t.Fatal("rename to a free name should succeed")
	}
	if r.exists("general") || !r.exists("chitchat") {
		t.Fatal("registry name binding did not move")
	}
}
