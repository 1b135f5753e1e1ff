package components

import (
	"testing"

	"github.com/bububa/deep-research/schema"
)

func TestMemoryOverflow(t *testing.T) {
	mem := NewMemory(2)
	mem.NewTurn()
	mem.NewMessage(UserRole, schema.NewString("first"))
	mem.NewMessage(AssistantRole, schema.NewString("second"))
	mem.NewMessage(UserRole, schema.NewString("third"))
	if count := mem.MessageCount(); count != 2 {
		t.Fatalf("Expect 2 messages after overflow, but got %d", count)
	}
	if got := mem.History()[0].StringifiedContent(); got != "second" {
		t.Errorf("Expect oldest message dropped, but got %s", got)
	}
}

func TestMemoryDeleteTurn(t *testing.T) {
	mem := NewMemory(0)
	mem.NewTurn()
	firstTurn := mem.TurnID()
	mem.NewMessage(UserRole, schema.NewString("q1"))
	mem.NewTurn()
	mem.NewMessage(UserRole, schema.NewString("q2"))
	if err := mem.DeleteTurn(firstTurn); err != nil {
		t.Fatalf("Error deleting turn: %v", err)
	}
	if count := mem.MessageCount(); count != 1 {
		t.Errorf("Expect 1 message left, but got %d", count)
	}
	if err := mem.DeleteTurn("missing"); err == nil {
		t.Error("Expect error for unknown turn ID")
	}
}

func TestMemoryCopyAndReset(t *testing.T) {
	mem := NewMemory(10)
	mem.NewTurn()
	mem.NewMessage(UserRole, schema.NewString("hello"))
	clone := NewMemory(0)
	clone.Copy(mem)
	mem.Reset()
	if count := mem.MessageCount(); count != 0 {
		t.Errorf("Expect empty memory after reset, but got %d", count)
	}
	if count := clone.MessageCount(); count != 1 {
		t.Errorf("Expect copied history untouched, but got %d", count)
	}
	if clone.MaxMessages() != 10 {
		t.Errorf("Expect copied maxMessages 10, but got %d", clone.MaxMessages())
	}
}
