package main

import "testing"

func TestAccountBindRejectsSecondSession(t *testing.T) {
	a, err := newAccount("alice", "hunter2", false)
	if err != nil {
		t.Fatalf("newAccount: %s", err)
	}

	if !a.bind(&Client{Name: "alice"}) {
		t.Fatal("first bind should succeed")
	}
	if a.bind(&Client{Name: "alice"}) {
		t.Fatal("second bind should fail while already online")
	}
	a.unbind()
	if !a.bind(&Client{Name: "alice"}) {
		t.Fatal("bind should succeed again after unbind")
	}
}

func TestAccountCheckPassword(t *testing.T) {
	a, err := newAccount("alice", "hunter2", false)
	if err != nil {
		t.Fatalf("newAccount: %s", err)
	}
	if !a.checkPassword("hunter2") {
		t.Fatal("correct password should check out")
	}
	if a.checkPassword("wrong") {
		t.Fatal("wrong password should fail")
	}
}

func TestAccountForgiveCounts(t *testing.T) {
	a, _ := newAccount("alice", "x", false)
	if a.forgive() != 1 {
		t.Fatal("first forgive() should return 1")
	}
	if a.forgive() != 2 {
		t.Fatal("second forgive() should return 2")
	}
	a.resetForgiven()
	if a.forgive() != 1 {
		t.Fatal("forgive() after reset should return 1")
	}
}

func TestAccountDeliverMarksMessageNew(t *testing.T) {
	a, _ := newAccount("alice", "x", false)
	a.deliver("bob", "hello")
	if a.newMessageCount() != 1 {
		t.Fatal("delivered message should count as new")
	}
	messages := a.messagesSnapshot()
	if len(messages) != 1 || messages[0].Source != "bob" {
		t.Fatalf("unexpected inbox contents: %+v", messages)
	}
}

func TestAccountDeleteMessagesByIdentity(t *testing.T) {
	a, _ := newAccount("alice", "x", false)
	a.deliver("bob", "first")
	a.deliver("carol", "second")
	messages := a.messagesSnapshot()

	a.deleteMessages([]*Message{messages[0]})

	remaining := a.messagesSnapshot()
	if len(remaining) != 1 || remaining[0].Source != "carol" {
		t.Fatalf("unexpected inbox after delete: %+v", remaining)
	}
}

func TestAccountRemoveContactOf(t *testing.T) {
	a, _ := newAccount("alice", "x", false)
	a.addContact("bob")
	a.addContact("carol")
	a.removeContactOf("bob")
	contacts := a.contactsSnapshot()
	if len(contacts) != 1 || contacts[0] != "carol" {
		t.Fatalf("unexpected contacts after removeContactOf: %v", contacts)
	}
}
